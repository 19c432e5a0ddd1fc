package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - ключ, по которому хранится *gorm.DB (пул или транзакция)
	DBContextKey = contextKey("db")

	// Ключи gin.Context, которые выставляет AuthMiddleware
	UserIDKey      = "userID"
	AccountTypeKey = "accountType"
	UserKey        = "user"
)
