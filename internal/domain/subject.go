package domain

type Subject struct {
	ID    string `json:"_id" gorm:"column:id;primaryKey;size:64"`
	Short string `json:"subShort" gorm:"column:sub_short;size:32;uniqueIndex"`
	Full  string `json:"subFull" gorm:"column:sub_full"`
}

func (Subject) TableName() string { return "subjects" }
