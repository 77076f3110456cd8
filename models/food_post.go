package models

import "time"

// PostStatus represents the lifecycle stage of a food post
type PostStatus string

const (
	StatusPending   PostStatus = "Pending"
	StatusPicked    PostStatus = "Picked"
	StatusCollected PostStatus = "Collected"
	StatusBooked    PostStatus = "Booked"
)

// FoodPost is a listing of surplus food created by a donor.
// ReceiverID is set only once the post is Booked; DonorID never changes.
type FoodPost struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	FoodName    string     `json:"food_name" gorm:"not null"`
	Quantity    string     `json:"quantity" gorm:"not null"`
	Location    string     `json:"location" gorm:"not null"`
	Image       string     `json:"image,omitempty"`
	Price       *int       `json:"price,omitempty"`
	Status      PostStatus `json:"status" gorm:"not null;default:'Pending';index"`
	DonorID     uint       `json:"donor_id" gorm:"not null;index"`
	VolunteerID *uint      `json:"volunteer_id,omitempty" gorm:"index"`
	ReceiverID  *uint      `json:"receiver_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PostStatusHistory tracks every status change of a post
type PostStatusHistory struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	PostID     uint       `json:"post_id" gorm:"not null;index"`
	FromStatus PostStatus `json:"from_status"`
	ToStatus   PostStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint       `json:"changed_by"`
	Note       string     `json:"note"`
	CreatedAt  time.Time  `json:"created_at"`
}
