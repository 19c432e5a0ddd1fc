package models

type User struct {
	BaseModel
	Username          string      `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	Password          string      `gorm:"not null" json:"-"`
	Email             string      `gorm:"type:varchar(255);not null" json:"email"`
	AccountType       AccountType `gorm:"type:varchar(20);not null" json:"account_type"`
	Confirmed         bool        `gorm:"default:false;not null" json:"confirmed"`
	ConfirmationToken *string     `gorm:"type:varchar(64);index" json:"-"`
	Timestamped

	// Relations
	Jobs      []Job      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CertFiles []CertFile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
