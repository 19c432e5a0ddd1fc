package models

type AccountType string
type JobStatus string

const (
	AccountTypeClient AccountType = "client"
	AccountTypePilot  AccountType = "pilot"
	AccountTypeAdmin  AccountType = "admin"

	JobStatusPending    JobStatus = "Pending"
	JobStatusInProgress JobStatus = "In Progress"
	JobStatusCompleted  JobStatus = "Completed"
	JobStatusCancelled  JobStatus = "Cancelled"
)

// DefaultFolderName - папка, которая создается вместе с каждой работой
const DefaultFolderName = "Images"

// IsSelfRegistrable сообщает, можно ли выбрать тип аккаунта при регистрации.
// Администратор создается только при старте приложения.
func (a AccountType) IsSelfRegistrable() bool {
	return a == AccountTypeClient || a == AccountTypePilot
}
