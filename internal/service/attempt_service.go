package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/skillsim/apiserver/internal/model"
	"github.com/skillsim/apiserver/internal/repository"
	"github.com/skillsim/apiserver/internal/telemetry"
)

// AttemptService ingests raw simulation runs: it grades the telemetry,
// stores the attempt, and recomputes level and module completion.
type AttemptService interface {
	Ingest(payload map[string]any) error
}

type attemptService struct {
	userRepo           repository.UserRepository
	moduleRepo         repository.ModuleRepository
	moduleActivityRepo repository.ModuleActivityRepository
	levelActivityRepo  repository.LevelActivityRepository
	attemptRepo        repository.AttemptRepository
	userActivityRepo   repository.UserActivityRepository
	scoring            *ScoringConfig
	now                func() time.Time
}

func NewAttemptService(
	userRepo repository.UserRepository,
	moduleRepo repository.ModuleRepository,
	moduleActivityRepo repository.ModuleActivityRepository,
	levelActivityRepo repository.LevelActivityRepository,
	attemptRepo repository.AttemptRepository,
	userActivityRepo repository.UserActivityRepository,
	scoring *ScoringConfig,
) AttemptService {
	return &attemptService{
		userRepo:           userRepo,
		moduleRepo:         moduleRepo,
		moduleActivityRepo: moduleActivityRepo,
		levelActivityRepo:  levelActivityRepo,
		attemptRepo:        attemptRepo,
		userActivityRepo:   userActivityRepo,
		scoring:            scoring,
		now:                time.Now,
	}
}

const assessmentCategory = "assessment"

func (s *attemptService) Ingest(payload map[string]any) error {
	userID, _ := payload["userId"].(string)
	orgNum, orgOK := telemetry.Number(payload["orgId"])
	if userID == "" || !orgOK {
		return fmt.Errorf("payload is missing userId or orgId")
	}
	orgID := uint(orgNum)

	moduleName, levelName, categoryName, err := moduleRef(payload)
	if err != nil {
		return err
	}

	user, err := s.userRepo.FindLiveByOrgAndUserID(orgID, userID)
	if err != nil {
		return fmt.Errorf("user %s not found in organization %d: %w", userID, orgID, err)
	}
	mainModule, err := s.moduleRepo.FindModuleByName(moduleName)
	if err != nil {
		return fmt.Errorf("module %s does not exist: %w", moduleName, err)
	}
	attrs, err := s.moduleRepo.FindAttributes(moduleName, orgID)
	if err != nil {
		return fmt.Errorf("module %s is not configured for organization %d: %w", moduleName, orgID, err)
	}
	moduleActivity, err := s.moduleActivityRepo.FindActive(user.ID, attrs.ID)
	if err != nil {
		return fmt.Errorf("module %s is not assigned to user %s: %w", moduleName, userID, err)
	}

	level, err := s.resolveLevel(mainModule, levelName, categoryName)
	if err != nil {
		return err
	}
	levelActivity, err := s.levelActivityRepo.GetOrCreate(moduleActivity.ID, level.ID)
	if err != nil {
		return err
	}

	if err := s.gradeAndMarkLevel(payload, moduleName, attrs, levelActivity); err != nil {
		return err
	}

	if err := s.storeAttempt(payload, levelActivity.ID); err != nil {
		return err
	}
	if err := s.recomputeModuleCompletion(mainModule.ID, moduleActivity); err != nil {
		return err
	}

	duration, _ := telemetry.Number(payload["duration"])
	startTime, endTime := attemptTimes(payload)
	if err := s.userActivityRepo.Create(&model.UserActivity{
		UserID:    user.ID,
		ModuleID:  mainModule.ID,
		StartTime: startTime,
		EndTime:   endTime,
		Duration:  int64(duration),
		LogEvent:  "module_activity",
	}); err != nil {
		return err
	}

	log.Info().Str("user_id", userID).Str("module", moduleName).Str("level", levelName).
		Msg("attempt ingested")
	return nil
}

// resolveLevel finds the level by name, creating the category and level with
// the next ordinals when the simulation sends a name the catalog has not
// seen yet.
func (s *attemptService) resolveLevel(mainModule *model.Module, levelName, categoryName string) (*model.Level, error) {
	category, err := s.moduleRepo.FindCategoryByName(categoryName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		order := int16(1)
		if last, lastErr := s.moduleRepo.LastCategory(); lastErr == nil {
			order = last.Order + 1
		}
		category = &model.Category{Name: capitalize(categoryName), Order: order}
		if createErr := s.moduleRepo.CreateCategory(category); createErr != nil {
			return nil, createErr
		}
	} else if err != nil {
		return nil, err
	}

	level, err := s.moduleRepo.FindLevelByName(mainModule.ID, levelName)
	if err == nil {
		level.CategoryID = category.ID
		return level, s.moduleRepo.SaveLevel(level)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	number := uint16(1)
	if last, lastErr := s.moduleRepo.LastLevel(mainModule.ID); lastErr == nil {
		number = last.Level + 1
	}
	level = &model.Level{
		ModuleID:   mainModule.ID,
		Name:       capitalize(levelName),
		Level:      number,
		CategoryID: category.ID,
	}
	return level, s.moduleRepo.CreateLevel(level)
}

// gradeAndMarkLevel replaces the client-sent score with the server-side
// grade for configured module families and decides level completion. A
// payload without a score leaves the level untouched.
func (s *attemptService) gradeAndMarkLevel(payload map[string]any, moduleName string, attrs *model.ModuleAttributes, levelActivity *model.LevelActivity) error {
	rawScore, hasScore := telemetry.Number(payload["score"])
	if !hasScore && payload["score"] == nil {
		return nil
	}
	score := rawScore

	fam, famOK := s.scoring.Family(moduleName)
	if famOK {
		score = fam.Score(payload)
		payload["score"] = score
	}

	complete := true
	if !(famOK && fam.AlwaysComplete) {
		if attrs.PassingScore != nil && score <= *attrs.PassingScore {
			complete = false
		}
	}
	levelActivity.Complete = complete
	return s.levelActivityRepo.Save(levelActivity)
}

func (s *attemptService) storeAttempt(payload map[string]any, levelActivityID uint) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	number, err := s.attemptRepo.NextAttemptNumber(levelActivityID)
	if err != nil {
		return err
	}
	duration, _ := telemetry.Number(payload["duration"])
	startTime, endTime := attemptTimes(payload)

	return s.attemptRepo.Create(&model.Attempt{
		LevelActivityID: levelActivityID,
		AttemptNumber:   number,
		Data:            datatypes.JSON(raw),
		Duration:        int64(duration),
		StartTime:       startTime,
		EndTime:         endTime,
	})
}

// recomputeModuleCompletion marks the assignment complete when every
// assessment level is complete, or, for modules without assessment levels,
// when every training level is.
func (s *attemptService) recomputeModuleCompletion(moduleID uint, moduleActivity *model.ModuleActivity) error {
	levels, err := s.moduleRepo.CountLevels(moduleID, assessmentCategory, true)
	if err != nil {
		return err
	}
	inCategory := true
	if levels == 0 {
		inCategory = false
		levels, err = s.moduleRepo.CountLevels(moduleID, assessmentCategory, false)
		if err != nil {
			return err
		}
		if levels == 0 {
			return nil
		}
	}

	completed, err := s.levelActivityRepo.CountComplete(moduleActivity.ID, assessmentCategory, inCategory)
	if err != nil {
		return err
	}

	if levels == completed {
		moduleActivity.Complete = true
		completeDate := s.now()
		moduleActivity.CompleteDate = &completeDate
	} else {
		moduleActivity.Complete = false
		moduleActivity.CompleteDate = nil
	}
	return s.moduleActivityRepo.Save(moduleActivity)
}

func moduleRef(payload map[string]any) (moduleName, levelName, categoryName string, err error) {
	name, nameOK := telemetry.Lookup(payload, "module.name")
	level, levelOK := telemetry.Lookup(payload, "module.level")
	category, categoryOK := telemetry.Lookup(payload, "module.category")
	moduleName, _ = name.(string)
	levelName, _ = level.(string)
	categoryName, _ = category.(string)
	if !nameOK || !levelOK || !categoryOK || moduleName == "" || levelName == "" {
		return "", "", "", fmt.Errorf("payload is missing the module reference")
	}
	if strings.TrimSpace(categoryName) == "" {
		categoryName = "Training"
	}
	return moduleName, levelName, categoryName, nil
}

func attemptTimes(payload map[string]any) (time.Time, time.Time) {
	var start, end time.Time
	if ts, ok := telemetry.Number(payload["startTime"]); ok {
		start = time.Unix(int64(ts), 0).UTC()
	}
	if ts, ok := telemetry.Number(payload["endTime"]); ok {
		end = time.Unix(int64(ts), 0).UTC()
	}
	return start, end
}
