package models

import "time"

type Prediction struct {
	TS            time.Time `gorm:"column:ts;primaryKey" json:"ts"`
	ModelVersion  string    `gorm:"column:model_version;primaryKey" json:"model_version"`
	FreshnessProb float64   `gorm:"column:freshness_prob" json:"freshness_prob"`
	Label         string    `gorm:"column:label" json:"label"`
	Confidence    *float64  `gorm:"column:confidence" json:"confidence"`
	RSLHours      float64   `gorm:"column:rsl_hours" json:"rsl_hours"`
}

func (Prediction) TableName() string { return "predictions" }
