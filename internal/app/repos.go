package app

import (
	"gorm.io/gorm"

	"github.com/kidomigon/roomcompanion-backend/internal/logger"
	"github.com/kidomigon/roomcompanion-backend/internal/repos"
)

type Repos struct {
	Room     repos.RoomRepo
	Staff    repos.StaffRepo
	Session  repos.SessionRepo
	Alert    repos.AlertRepo
	Question repos.QuestionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Room:     repos.NewRoomRepo(db, log),
		Staff:    repos.NewStaffRepo(db, log),
		Session:  repos.NewSessionRepo(db, log),
		Alert:    repos.NewAlertRepo(db, log),
		Question: repos.NewQuestionRepo(db, log),
	}
}
