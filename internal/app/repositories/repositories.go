package repositories

import (
	"github.com/yigit/scholarship/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	ReferenceRepository   *ReferenceRepository
	ApplicationRepository *ApplicationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(conn db.DBTX) *Repositories {
	return &Repositories{
		ReferenceRepository:   NewReferenceRepository(conn),
		ApplicationRepository: NewApplicationRepository(conn),
	}
}
