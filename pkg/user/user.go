package user

import "time"

type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
	// CreatedAt is the account creation timestamp the trial window is measured from.
	CreatedAt time.Time
}
