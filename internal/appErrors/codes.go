package appErrors

// Коды ошибок сгруппированные по доменам
const (
	// Аутентификация и авторизация
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeUserNotConfirmed   ErrorCode = "USER_NOT_CONFIRMED"

	// Валидация
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeFileTooLarge     ErrorCode = "FILE_TOO_LARGE"

	// Ресурсы
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeUserNotFound   ErrorCode = "USER_NOT_FOUND"
	CodeJobNotFound    ErrorCode = "JOB_NOT_FOUND"
	CodeFolderNotFound ErrorCode = "FOLDER_NOT_FOUND"

	// Бизнес-логика
	CodeConflict ErrorCode = "CONFLICT"

	// Системные ошибки
	CodeInternalError   ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError   ErrorCode = "DATABASE_ERROR"
	CodeFileSystemError ErrorCode = "FILE_SYSTEM_ERROR"
)
