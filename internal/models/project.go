package models

import (
	"time"
)

// Project represents a plotted real estate development
type Project struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"not null;uniqueIndex" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	ProjectType     string    `gorm:"default:residential" json:"project_type"`
	Address         string    `gorm:"not null" json:"address"`
	City            string    `json:"city"`
	State           string    `json:"state"`
	TotalPlots      int       `gorm:"not null" json:"total_plots"`
	TotalArea       float64   `gorm:"type:decimal(15,2);default:0" json:"total_area"`
	BaseRate        float64   `gorm:"type:decimal(12,2);default:0" json:"base_rate"`
	MeasurementUnit string    `gorm:"default:sqyd" json:"measurement_unit"`
	LegalText       string    `gorm:"type:text" json:"legal_text"`
	GUID            string    `gorm:"column:guid;not null" json:"guid"`
	LaunchDate      *string   `gorm:"type:date" json:"launch_date"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	IsDeleted       bool      `gorm:"default:false;index" json:"is_deleted"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Associations
	Bookings []Booking `gorm:"foreignKey:ProjectID" json:"bookings,omitempty"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

// Project type constants
const (
	ProjectTypeResidential = "residential"
	ProjectTypeCommercial  = "commercial"
	ProjectTypeFarmland    = "farmland"
)

// BookedPlots counts the active, non-deleted bookings loaded on the project.
func (p *Project) BookedPlots() int {
	var booked int
	for _, b := range p.Bookings {
		if b.IsActive() {
			booked++
		}
	}
	return booked
}

// AvailablePlots is derived from total plots minus active bookings.
// It is never stored; plot inventory is always computed from the booking set.
func (p *Project) AvailablePlots() int {
	return p.TotalPlots - p.BookedPlots()
}

// ProjectResponse is the JSON response format for projects
type ProjectResponse struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	ProjectType     string    `json:"project_type"`
	Address         string    `json:"address"`
	City            string    `json:"city"`
	State           string    `json:"state"`
	TotalPlots      int       `json:"total_plots"`
	TotalArea       float64   `json:"total_area"`
	BaseRate        float64   `json:"base_rate"`
	MeasurementUnit string    `json:"measurement_unit"`
	LegalText       string    `json:"legal_text,omitempty"`
	GUID            string    `json:"guid"`
	LaunchDate      *string   `json:"launch_date"`
	BookedPlots     int       `json:"booked_plots"`
	AvailablePlots  int       `json:"available_plots"`
	IsActive        bool      `json:"is_active"`
	IsDeleted       bool      `json:"is_deleted"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToResponse converts Project to ProjectResponse
func (p *Project) ToResponse() ProjectResponse {
	return ProjectResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		ProjectType:     p.ProjectType,
		Address:         p.Address,
		City:            p.City,
		State:           p.State,
		TotalPlots:      p.TotalPlots,
		TotalArea:       p.TotalArea,
		BaseRate:        p.BaseRate,
		MeasurementUnit: p.MeasurementUnit,
		LegalText:       p.LegalText,
		GUID:            p.GUID,
		LaunchDate:      p.LaunchDate,
		BookedPlots:     p.BookedPlots(),
		AvailablePlots:  p.AvailablePlots(),
		IsActive:        p.IsActive,
		IsDeleted:       p.IsDeleted,
		CreatedAt:       p.CreatedAt,
	}
}
