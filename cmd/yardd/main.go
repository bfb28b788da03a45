package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/modelyard/modelyard/cmd/yardd/handlers"
	"github.com/modelyard/modelyard/pkg/auth/token"
	bconf "github.com/modelyard/modelyard/pkg/configs/backend"
	"github.com/modelyard/modelyard/pkg/domain/modelyard"
	"github.com/modelyard/modelyard/pkg/utils/echoutil"
	"github.com/modelyard/modelyard/pkg/utils/filewatch"
)

func main() {
	configPath := flag.String("config", "", "server config path")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	schemaRepository := flag.String(
		"schema-repository", "",
		"path to the schema repository. overrides the config file",
	)
	flag.Parse()

	conf, err := bconf.LoadServerConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}
	if *schemaRepository != "" {
		conf.SchemaRepository = *schemaRepository
	}

	ctx := context.Background()

	e := echo.New()
	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)

	// restart (by the supervisor) picks up config changes.
	{
		wctx, cancel, err := filewatch.UntilModifyContext(ctx, *configPath)
		if err != nil {
			log.Fatalf("can not watch configration: %s", err)
		}
		defer cancel()
		context.AfterFunc(wctx, func() {
			log.Println("config file is updated. quit to restart server.")
			graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := e.Shutdown(graceful); err != nil {
				log.Printf("error on shutdown by config update: %s", err)
			}
		})
	}

	yard, err := modelyard.New(
		ctx, conf,
		modelyard.WithSchemaRepository(conf.SchemaRepository),
	)
	if err != nil {
		log.Fatalf("can not connect database: %s", err)
	}
	defer yard.Close()

	if conf.SchemaRepository != "" {
		if err := yard.Schema().Database().Upgrade(ctx); err != nil {
			log.Fatalf("can not upgrade schema: %s", err)
		}
	}

	verifier, err := token.NewVerifier(conf.TokenKey)
	if err != nil {
		log.Fatalf("can not build token verifier: %s", err)
	}

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api", token.Middleware(verifier))

	dbAuth := yard.Auth().Database()
	{
		runid := "runid"
		api.POST(
			"/runs/:runid/metrics",
			handlers.PostRunMetricsHandler(
				dbAuth, yard.Run().Database(), yard.Metric().Database(), runid,
			),
		)
		api.POST(
			"/runs/:runid/complete",
			handlers.CompleteRunHandler(
				dbAuth, yard.Run().Database(), yard.Metric().Database(), runid,
			),
		)
		api.DELETE(
			"/metric-values/:id",
			handlers.DeleteMetricValueHandler(dbAuth, yard.Metric().Database(), "id"),
		)
	}

	{
		api.GET(
			"/reports/experiments/:id/leaderboard",
			handlers.LeaderboardHandler(dbAuth, yard.Report().Database(), "id"),
		)
		api.GET(
			"/reports/experiments/:id/best-run",
			handlers.BestRunHandler(dbAuth, yard.Report().Database(), "id"),
		)
		api.GET(
			"/reports/projects/:id/dashboard",
			handlers.ProjectDashboardHandler(dbAuth, yard.Report().Database(), "id"),
		)
	}

	{
		api.POST(
			"/batch-import",
			handlers.BatchImportHandler(yard.BatchImport().Database(), yard.Pipeline()),
		)
		api.GET(
			"/batch-import-errors",
			handlers.ListImportErrorsHandler(yard.BatchImport().Database()),
		)
		api.GET("/audit-log", handlers.AuditLogHandler(yard.Audit().Database()))
	}

	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", conf.Port)))
}
