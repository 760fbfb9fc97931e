package models

import "time"

type SpoilageAlert struct {
	TS            time.Time `gorm:"column:ts;primaryKey" json:"ts"`
	Level         string    `gorm:"column:level;primaryKey" json:"level"`
	Reason        string    `gorm:"column:reason" json:"reason"`
	FreshnessProb float64   `gorm:"column:freshness_prob" json:"freshness_prob"`
	RSLHours      *float64  `gorm:"column:rsl_hours" json:"rsl_hours"`
}

func (SpoilageAlert) TableName() string { return "spoilage_alerts" }
