package view

type DbCredentials struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}
