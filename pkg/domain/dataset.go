package domain

import (
	"fmt"
	"time"
)

type TaskType string

const (
	TaskClassification TaskType = "classification"
	TaskRegression     TaskType = "regression"
	TaskRanking        TaskType = "ranking"
	TaskSegmentation   TaskType = "segmentation"
	TaskNLP            TaskType = "nlp"
	TaskOther          TaskType = "other"
)

func AsTaskType(taskType string) (TaskType, error) {
	switch taskType {
	case string(TaskClassification):
		return TaskClassification, nil
	case string(TaskRegression):
		return TaskRegression, nil
	case string(TaskRanking):
		return TaskRanking, nil
	case string(TaskSegmentation):
		return TaskSegmentation, nil
	case string(TaskNLP):
		return TaskNLP, nil
	case string(TaskOther):
		return TaskOther, nil
	default:
		return "", fmt.Errorf("'%s' is not TaskType", taskType)
	}
}

type NewDataset struct {
	ProjectId   string
	Name        string
	TaskType    TaskType
	Description *string
}

type Dataset struct {
	Id          string
	ProjectId   string
	Name        string
	TaskType    TaskType
	Description *string
	CreatedAt   time.Time
}
