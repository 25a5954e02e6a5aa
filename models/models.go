package models

// Habit is a tracked daily activity. The seed set uses fixed ids 1-10.
type Habit struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// Check marks a habit as done on a date. The row existing is the mark itself.
type Check struct {
	HabitID uint   `gorm:"primaryKey;autoIncrement:false;column:habit_id" json:"habit_id"`
	Date    string `gorm:"primaryKey;column:date" json:"date"`
}

const (
	DefaultIcon  = "bi-pencil-square"
	DefaultColor = "#000000"
)
