package models

import "time"

type SensorReading struct {
	ID           uint      `gorm:"column:id;primaryKey" json:"id"`
	TemperatureC float64   `gorm:"column:temperature_c;not null" json:"temperatureC"`
	TemperatureF float64   `gorm:"column:temperature_f;not null" json:"temperatureF"`
	Humidity     float64   `gorm:"column:humidity;not null" json:"humidity"`
	PPMNH3       int       `gorm:"column:ppm_nh3;not null" json:"ppm_nh3"`
	PPMCO2       int       `gorm:"column:ppm_co2;not null" json:"ppm_co2"`
	PPMC2H5OH    int       `gorm:"column:ppm_c2h5oh;not null" json:"ppm_c2h5oh"`
	TS           time.Time `gorm:"column:ts;not null;index" json:"ts"`
}

func (SensorReading) TableName() string { return "sensor_readings" }
