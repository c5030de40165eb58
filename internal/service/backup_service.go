package service

import (
	"context"
	"encoding/json"
	"time"

	"obrafacil/internal/database"
	"obrafacil/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Snapshot is the serialized application state: one aggregate record with
// every domain collection plus a separate users directory record. This is the
// same two-record layout the legacy client kept in browser storage, so old
// exports remain importable.
type Snapshot struct {
	AppData SnapshotAppData `json:"appData"`
	Users   []UserRecord    `json:"users"`
}

type SnapshotAppData struct {
	Materials    []model.Material      `json:"materials"`
	Budgets      []BudgetRecord        `json:"budgets"`
	Checklist    []model.ChecklistItem `json:"checklist"`
	Measurements []model.Measurement   `json:"measurements"`
	Additions    []model.Addition      `json:"additions"`
	Integrations []model.Integration   `json:"integrations"`
}

// UserRecord carries the stored credential hash, unlike the API user
// projection. Snapshots are admin-only for this reason.
type UserRecord struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Avatar       string    `json:"avatar,omitempty"`
	Role         string    `json:"role"`
}

// BudgetRecord mirrors model.Budget but serializes the deletion request as the
// nested object the legacy layout used.
type BudgetRecord struct {
	model.Budget
	DeletionRequest *DeletionRequestInfo `json:"deletionRequest,omitempty"`
}

// RestoreResult reports what a restore actually did.
type RestoreResult struct {
	RestoredDefaults bool `json:"restoredDefaults"`
	Materials        int  `json:"materials"`
	Budgets          int  `json:"budgets"`
	Users            int  `json:"users"`
	Checklist        int  `json:"checklist"`
	Measurements     int  `json:"measurements"`
	Additions        int  `json:"additions"`
	Integrations     int  `json:"integrations"`
}

// BackupService exports and restores the whole application state. A corrupt
// snapshot is treated as "no data yet": the restore degrades to the default
// empty state with the seed checklist instead of failing.
type BackupService interface {
	Export(ctx context.Context) (*Snapshot, error)
	Restore(ctx context.Context, actor Actor, raw []byte) (*RestoreResult, error)
}

type backupService struct {
	db *gorm.DB
}

func NewBackupService(db *gorm.DB) BackupService {
	return &backupService{db: db}
}

func (s *backupService) Export(ctx context.Context) (*Snapshot, error) {
	db := s.db.WithContext(ctx)
	snapshot := &Snapshot{}

	if err := db.Order("created_at asc").Find(&snapshot.AppData.Materials).Error; err != nil {
		return nil, err
	}

	var budgets []model.Budget
	if err := db.Preload("Itens").Order("created_at desc").Find(&budgets).Error; err != nil {
		return nil, err
	}
	for i := range budgets {
		record := BudgetRecord{Budget: budgets[i]}
		if budgets[i].HasPendingDeletionRequest() {
			record.DeletionRequest = &DeletionRequestInfo{
				RequesterID:   *budgets[i].DeletionRequestedBy,
				RequesterName: budgets[i].DeletionRequesterName,
				Date:          budgets[i].DeletionRequestedAt.Format(time.RFC3339),
				Reason:        budgets[i].DeletionReason,
			}
		}
		snapshot.AppData.Budgets = append(snapshot.AppData.Budgets, record)
	}

	if err := db.Order("position asc").Find(&snapshot.AppData.Checklist).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Photos").Order("created_at desc").Find(&snapshot.AppData.Measurements).Error; err != nil {
		return nil, err
	}
	if err := db.Order("created_at desc").Find(&snapshot.AppData.Additions).Error; err != nil {
		return nil, err
	}
	if err := db.Order("created_at asc").Find(&snapshot.AppData.Integrations).Error; err != nil {
		return nil, err
	}

	var users []model.User
	if err := db.Order("created_at asc").Find(&users).Error; err != nil {
		return nil, err
	}
	for _, user := range users {
		snapshot.Users = append(snapshot.Users, UserRecord{
			ID:           user.ID,
			Name:         user.Name,
			Email:        user.Email,
			PasswordHash: user.Password,
			Avatar:       user.Avatar,
			Role:         user.Role,
		})
	}

	return snapshot, nil
}

// decodeSnapshot parses raw, treating an unparseable payload as "no data
// yet". Missing checklist or integration sections are backfilled with the
// seed data, and integration entries with an unknown provider are dropped.
func decodeSnapshot(raw []byte) (Snapshot, bool) {
	var snapshot Snapshot
	corrupt := json.Unmarshal(raw, &snapshot) != nil
	if corrupt {
		snapshot = Snapshot{}
	}

	if len(snapshot.AppData.Checklist) == 0 {
		snapshot.AppData.Checklist = database.DefaultChecklist()
	}

	integrations := snapshot.AppData.Integrations[:0]
	for _, integration := range snapshot.AppData.Integrations {
		if model.ValidProvider(integration.Provider) {
			integrations = append(integrations, integration)
		}
	}
	snapshot.AppData.Integrations = integrations
	if len(snapshot.AppData.Integrations) == 0 {
		snapshot.AppData.Integrations = database.DefaultIntegrations()
	}

	return snapshot, corrupt
}

// Restore replaces the stored state with the snapshot contents, whole-record.
// An unparseable payload restores the defaults instead of erroring. The users
// directory is only replaced when the snapshot actually carries one, so a
// partial export cannot lock everyone out.
func (s *backupService) Restore(ctx context.Context, actor Actor, raw []byte) (*RestoreResult, error) {
	snapshot, corrupt := decodeSnapshot(raw)
	result := &RestoreResult{RestoredDefaults: corrupt}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, purge := range []interface{}{
			&model.BudgetItem{}, &model.Budget{}, &model.Material{},
			&model.ChecklistItem{}, &model.MeasurementPhoto{}, &model.Measurement{},
			&model.Addition{}, &model.Integration{},
		} {
			if err := tx.Where("1 = 1").Delete(purge).Error; err != nil {
				return err
			}
		}

		if len(snapshot.AppData.Materials) > 0 {
			if err := tx.Create(&snapshot.AppData.Materials).Error; err != nil {
				return err
			}
		}
		for i := range snapshot.AppData.Budgets {
			budget := snapshot.AppData.Budgets[i].Budget
			if req := snapshot.AppData.Budgets[i].DeletionRequest; req != nil {
				requesterID := req.RequesterID
				budget.DeletionRequestedBy = &requesterID
				budget.DeletionRequesterName = req.RequesterName
				if at, err := time.Parse(time.RFC3339, req.Date); err == nil {
					budget.DeletionRequestedAt = &at
				}
				budget.DeletionReason = req.Reason
			}
			if err := tx.Create(&budget).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(&snapshot.AppData.Checklist).Error; err != nil {
			return err
		}
		if len(snapshot.AppData.Measurements) > 0 {
			if err := tx.Create(&snapshot.AppData.Measurements).Error; err != nil {
				return err
			}
		}
		if len(snapshot.AppData.Additions) > 0 {
			if err := tx.Create(&snapshot.AppData.Additions).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(&snapshot.AppData.Integrations).Error; err != nil {
			return err
		}

		if len(snapshot.Users) > 0 {
			if err := tx.Where("1 = 1").Delete(&model.RefreshToken{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("1 = 1").Delete(&model.User{}).Error; err != nil {
				return err
			}
			for _, record := range snapshot.Users {
				user := model.User{
					ID:       record.ID,
					Name:     record.Name,
					Email:    record.Email,
					Password: record.PasswordHash,
					Avatar:   record.Avatar,
					Role:     record.Role,
				}
				if err := tx.Create(&user).Error; err != nil {
					return err
				}
			}
		}

		actorID := actor.ID
		details, _ := json.Marshal(map[string]interface{}{"restoredDefaults": corrupt})
		return tx.Create(&model.AuditLog{
			UserID:  &actorID,
			Action:  model.ActionRestoreBackup,
			Details: string(details),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	result.Materials = len(snapshot.AppData.Materials)
	result.Budgets = len(snapshot.AppData.Budgets)
	result.Users = len(snapshot.Users)
	result.Checklist = len(snapshot.AppData.Checklist)
	result.Measurements = len(snapshot.AppData.Measurements)
	result.Additions = len(snapshot.AppData.Additions)
	result.Integrations = len(snapshot.AppData.Integrations)
	return result, nil
}
