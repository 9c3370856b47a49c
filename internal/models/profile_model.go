package models

type Profile struct {
	ID       string `db:"id" json:"id"`
	FullName string `db:"full_name" json:"full_name"`
	Username string `db:"username" json:"username"`
	Phone    string `db:"phone" json:"phone"`
	Email    string `db:"email" json:"email"`
	Role     string `db:"role" json:"role"`
}

const RoleAdmin = "admin"
