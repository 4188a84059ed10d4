package internal

const (
	COOKIE_ACCESS_TOKEN_NAME = "afghanrelief_access_token"
)
