package domain

type Class struct {
	ID         string   `json:"_id" gorm:"column:id;primaryKey;size:64"`
	Sub        string   `json:"classSub" gorm:"column:class_sub;size:32;index"`
	Num        string   `json:"classNum" gorm:"column:class_num;size:16"`
	Title      string   `json:"classTitle" gorm:"column:class_title"`
	Full       string   `json:"classFull" gorm:"column:class_full"`
	Professors []string `json:"classProfessors" gorm:"column:class_professors;serializer:json;type:text"`
	CrossList  []string `json:"crossList" gorm:"column:cross_list;serializer:json;type:text"`
	Semesters  []string `json:"classSems" gorm:"column:class_sems;serializer:json;type:text"`
	Difficulty *float64 `json:"classDifficulty" gorm:"column:class_difficulty"`
	Rating     *float64 `json:"classRating" gorm:"column:class_rating"`
	Workload   *float64 `json:"classWorkload" gorm:"column:class_workload"`
}

func (Class) TableName() string { return "classes" }

// Key is the human readable "subject number" label, e.g. "cs 2110".
func (c Class) Key() string {
	return c.Sub + " " + c.Num
}
