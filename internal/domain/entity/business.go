package entity

import "time"

// Business представляет заведение, участвующее в программе лояльности
type Business struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:150;not null" json:"name"`
	Description    string    `gorm:"type:text" json:"description,omitempty"`
	Address        string    `gorm:"size:255" json:"address,omitempty"`
	MunicipalityID *uint     `gorm:"index" json:"municipality_id,omitempty"`
	Phone          string    `gorm:"size:20" json:"phone,omitempty"`
	Active         bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Business) TableName() string {
	return "businesses"
}

// BusinessMenu представляет пункт меню заведения
type BusinessMenu struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BusinessID uint      `gorm:"not null;index" json:"business_id"`
	Name       string    `gorm:"size:150;not null" json:"name"`
	Price      int64     `gorm:"not null;default:0" json:"price"`
	Available  bool      `gorm:"not null;default:true" json:"available"`
	CreatedAt  time.Time `json:"created_at"`
}

func (BusinessMenu) TableName() string {
	return "business_menus"
}

// Municipality представляет муниципалитет, к которому привязаны заведения
type Municipality struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Municipality) TableName() string {
	return "municipalities"
}

// UserType представляет категорию пользователя. Категория выбирается при
// регистрации по непрозрачному хешу, чтобы не перечислять категории в API.
type UserType struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	TypeHash string `gorm:"size:64;not null;uniqueIndex" json:"-"`
	Active   bool   `gorm:"not null;default:true" json:"active"`
}

func (UserType) TableName() string {
	return "user_types"
}
