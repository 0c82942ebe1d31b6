package model

import "time"

type User struct {
	UserId     int64     `gorm:"column:userId;type:serial;autoIncrement;primaryKey;" json:"userId"`
	Username   string    `gorm:"column:username;type:text;not null;uniqueIndex:User_username_key;" json:"username"`
	PublicName string    `gorm:"column:publicName;type:text;not null;" json:"publicName"`
	Email      string    `gorm:"column:email;type:text;not null;uniqueIndex:User_email_key;" json:"email"`
	Password   string    `gorm:"column:password;type:text;not null;" json:"-"`
	CreatedAt  time.Time `gorm:"column:createdAt;type:timestamp(3);not null;default:CURRENT_TIMESTAMP;" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updatedAt;type:timestamp(3);not null;" json:"updatedAt"`
}

func (User) TableName() string {
	return "User"
}

//------------------------------------
//------------------------------------

type RegisterUserReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginUserReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserProfileRes struct {
	UserId     int64     `json:"userId"`
	Username   string    `json:"username"`
	PublicName string    `json:"publicName"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"createdAt"`
}
