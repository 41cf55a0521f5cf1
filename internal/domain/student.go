package domain

type Privilege string

const (
	PrivilegeDefault Privilege = "regular"
	PrivilegeAdmin   Privilege = "admin"
)

type Student struct {
	ID          string    `json:"_id" gorm:"column:id;primaryKey;size:64"`
	FirstName   string    `json:"firstName" gorm:"column:first_name"`
	LastName    string    `json:"lastName" gorm:"column:last_name"`
	NetID       string    `json:"netId" gorm:"column:net_id;size:64;uniqueIndex"`
	Affiliation *string   `json:"affiliation" gorm:"column:affiliation"`
	Token       string    `json:"-" gorm:"column:token"`
	Privilege   Privilege `json:"privilege" gorm:"column:privilege;size:16"`
}

func (Student) TableName() string { return "students" }

func (s *Student) IsAdmin() bool {
	return s != nil && s.Privilege == PrivilegeAdmin
}
