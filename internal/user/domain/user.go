package domain

import "time"

type ID string

type User struct {
	ID        ID
	Name      string
	Email     *string
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the public face of a user as returned by the API.
type Profile struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Image string  `json:"image"`
}

func (u User) Profile() Profile {
	return Profile{
		ID:    string(u.ID),
		Name:  u.Name,
		Email: u.Email,
		Image: u.Image,
	}
}
