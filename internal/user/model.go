package user

import "time"

type User struct {
	ID        string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
}

type UpdateProfileParams struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

type ListOptions struct {
	Role  *string
	Limit int
	Page  int
}
