package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"schoolms-backend/models"
)

// GenerationResult reports what an obligation-generation run did.
type GenerationResult struct {
	Students int `json:"students"`
	Created  int `json:"created"`
	Skipped  int `json:"skipped"`
}

// Generator instantiates fee schedules into per-student obligations at period
// start. Safe to re-run: existing (student, schedule, period) rows are skipped.
type Generator struct {
	db       *gorm.DB
	resolver *Resolver
	ledger   *Ledger
}

func NewGenerator(db *gorm.DB) *Generator {
	return &Generator{
		db:       db,
		resolver: NewResolver(db),
		ledger:   NewLedger(db),
	}
}

// GenerateForStandard creates obligations for every active student of a
// standard in the given year. The optional discount is resolved per category
// at creation time and frozen into each obligation.
func (g *Generator) GenerateForStandard(year *models.AcademicYear, standardID uint, discount *models.FeeDiscount, today time.Time) (*GenerationResult, error) {
	var students []models.Student
	if err := g.db.Where("standard_id = ? AND is_active = ?", standardID, true).
		Order("admission_number").Find(&students).Error; err != nil {
		return nil, err
	}

	result := &GenerationResult{Students: len(students)}
	err := g.db.Transaction(func(tx *gorm.DB) error {
		for i := range students {
			created, skipped, err := g.generateForStudent(tx, &students[i], year, discount, today)
			if err != nil {
				return err
			}
			result.Created += created
			result.Skipped += skipped
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (g *Generator) generateForStudent(tx *gorm.DB, student *models.Student, year *models.AcademicYear, discount *models.FeeDiscount, today time.Time) (created, skipped int, err error) {
	charges, err := g.resolver.ResolveForStudent(tx, student, year)
	if err != nil {
		return 0, 0, err
	}

	for _, charge := range charges {
		f, err := NewObligation(student.ID, &charge.Schedule, charge.PeriodNo, charge.DueDate, discount, today)
		if err != nil {
			return created, skipped, err
		}
		if err := g.ledger.CreateObligation(tx, f); err != nil {
			if errors.Is(err, ErrObligationExists) {
				skipped++
				continue
			}
			return created, skipped, err
		}
		created++
	}
	return created, skipped, nil
}
