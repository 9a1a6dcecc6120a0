package models

// Attribute names of the users table. The table is keyed by username; every
// lookup, update and delete goes through it.
const (
	AttrUserID    = "user_id"
	AttrUsername  = "username"
	AttrEmail     = "email"
	AttrPassword  = "password"
	AttrFirstName = "first_name"
	AttrLastName  = "last_name"
	AttrAge       = "age"
)

// User is the full stored record for a user account. PasswordHash is the
// bcrypt digest, never the plaintext, and is never serialized to clients.
type User struct {
	UserID       string `json:"user_id" dynamodbav:"user_id"`
	Username     string `json:"username" dynamodbav:"username"`
	Email        string `json:"email" dynamodbav:"email"`
	PasswordHash string `json:"-" dynamodbav:"password"` // Never expose this to the client
	FirstName    string `json:"first_name" dynamodbav:"first_name"`
	LastName     string `json:"last_name" dynamodbav:"last_name"`
	Age          int    `json:"age" dynamodbav:"age"`
}

// UserData is the creation payload: everything a new account needs,
// including the plaintext password that only ever lives in the request.
type UserData struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,min=3,max=50,alpha"`
	LastName  string `json:"last_name" validate:"required,min=3,max=50,alpha"`
	Age       int    `json:"age" validate:"required,gt=0,lt=150"`
}

// UserInfo is the public view of a user: no password, no user_id. It doubles
// as the update payload, keyed by username.
type UserInfo struct {
	Username  string `json:"username" dynamodbav:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" dynamodbav:"email" validate:"required,email"`
	FirstName string `json:"first_name" dynamodbav:"first_name" validate:"required,min=3,max=50,alpha"`
	LastName  string `json:"last_name" dynamodbav:"last_name" validate:"required,min=3,max=50,alpha"`
	Age       int    `json:"age" dynamodbav:"age" validate:"required,gt=0,lt=150"`
}

// Info returns the public view of the record.
func (u User) Info() UserInfo {
	return UserInfo{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Age:       u.Age,
	}
}
