package models

import "time"

const (
	PaymentPending  = "PENDING"
	PaymentPaid     = "PAID"
	PaymentSettled  = "SETTLED"
	PaymentExpired  = "EXPIRED"
	PaymentCanceled = "CANCELED"
	PaymentFailed   = "FAILED"
)

type Payment struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OrderID     string    `json:"order_id" gorm:"unique"`
	UserID      uint      `json:"user_id" gorm:"index"`
	User        User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	RoomID      uint      `json:"room_id" gorm:"index"`
	Room        Room      `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	GrossAmount int64     `json:"gross_amount"`
	Status      string    `json:"status" gorm:"default:PENDING"`
	SnapToken   string    `json:"snap_token,omitempty"`
	RedirectURL string    `json:"redirect_url,omitempty"`
	PaidAt      time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
