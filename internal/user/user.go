package user

import "time"

// User is the single persisted entity. Password holds the bcrypt hash and
// is never serialized into a response.
type User struct {
	ID          int       `json:"id"`
	Username    string    `json:"username"`
	Password    string    `json:"-"`
	PhoneNumber string    `json:"phone_number"`
	Gender      string    `json:"gender"`
	ModifiedBy  *string   `json:"modified_by"`
	ModifiedOn  time.Time `json:"modified_on"`
}
