package domain

import "time"

// DayAvailability availability of a single calendar day for a specialist
type DayAvailability struct {
	Date      time.Time
	Weekday   WeekdayName
	Available bool
	Entry     *WeeklyScheduleEntry // nil, если в этот день специалист не принимает
	Booked    int
}

// RemainingSpots оставшиеся места; -1 если вместимость не ограничена
func (d *DayAvailability) RemainingSpots() int {
	if d.Entry == nil {
		return 0
	}
	if !d.Entry.HasCapacityLimit() {
		return -1
	}
	remaining := d.Entry.Capacity - d.Booked
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsFull returns true if the day has no spots left
func (d *DayAvailability) IsFull() bool {
	return d.Entry != nil && d.Entry.HasCapacityLimit() && d.RemainingSpots() == 0
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (d *DayAvailability) OccupancyRate() float64 {
	if d.Entry == nil || !d.Entry.HasCapacityLimit() {
		return 0
	}
	return float64(min(d.Booked, d.Entry.Capacity)) / float64(d.Entry.Capacity) * 100
}
