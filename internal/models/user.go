// internal/models/user.go
package models

// Account is a seller or buyer row. Both tables share this shape; the
// repository picks the table from the ActorKind.
type Account struct {
	BaseModel
	Name     string `json:"name" gorm:"size:255;not null"`
	Username string `json:"username" gorm:"size:100;not null"`
	Password string `json:"-" gorm:"size:255;not null"`
}
