package models

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// SpecialtyResponse специальность
type SpecialtyResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SpecialistResponse специалист для селектора
type SpecialistResponse struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
}

// ScheduleEntryResponse запись недельного расписания
type ScheduleEntryResponse struct {
	ID          int64              `json:"id"`
	Weekday     int                `json:"weekday"`
	WeekdayName domain.WeekdayName `json:"weekdayName"`
	StartTime   types.TimeString   `json:"startTime"`
	EndTime     types.TimeString   `json:"endTime"`
	Capacity    int                `json:"capacity"`
}

// ScheduleResponse недельное расписание специалиста
type ScheduleResponse struct {
	SpecialistID uuid.UUID               `json:"specialistId"`
	Entries      []ScheduleEntryResponse `json:"entries"`
}

// FromDomainSpecialties конвертирует специальности
func FromDomainSpecialties(specialties []domain.Specialty) []SpecialtyResponse {
	result := make([]SpecialtyResponse, 0, len(specialties))
	for _, s := range specialties {
		result = append(result, SpecialtyResponse{ID: s.ID, Name: s.Name})
	}
	return result
}

// FromDomainSpecialists конвертирует специалистов
func FromDomainSpecialists(specialists []domain.Specialist) []SpecialistResponse {
	result := make([]SpecialistResponse, 0, len(specialists))
	for _, s := range specialists {
		result = append(result, SpecialistResponse{ID: s.ID, FullName: s.FullName()})
	}
	return result
}

// FromDomainSchedule конвертирует расписание
func FromDomainSchedule(specialistID uuid.UUID, entries []domain.WeeklyScheduleEntry) *ScheduleResponse {
	resp := &ScheduleResponse{
		SpecialistID: specialistID,
		Entries:      make([]ScheduleEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		name, _ := e.WeekdayName()
		resp.Entries = append(resp.Entries, ScheduleEntryResponse{
			ID:          e.ID,
			Weekday:     e.Weekday,
			WeekdayName: name,
			StartTime:   e.StartTime,
			EndTime:     e.EndTime,
			Capacity:    e.Capacity,
		})
	}
	return resp
}
