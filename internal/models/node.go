package models

// Node is a named record belonging to an organization. Rows are never
// updated or deleted once created.
type Node struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:text;not null" json:"name"`
	Org  string `gorm:"type:text;not null" json:"org"`
}

func (Node) TableName() string {
	return "nodes"
}
