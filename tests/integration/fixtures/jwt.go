package fixtures

const (
	AccessTokenSecretKey  = "test-access-secret-key-32-bytes!"
	RefreshTokenSecretKey = "test-refresh-secret-key-32-byte!"
)
