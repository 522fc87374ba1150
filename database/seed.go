package database

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/camden-git/yearbookbackend/models"
)

//go:embed seed_people.yaml
var defaultSeed []byte

// SeedPerson is one entry of a seed fixture.
type SeedPerson struct {
	Name     string `yaml:"name"`
	Major    string `yaml:"major"`
	Year     int    `yaml:"year"`
	ImageURL string `yaml:"imageUrl"`
}

type SeedFile struct {
	People []SeedPerson `yaml:"people"`
}

// DefaultSeed returns the built-in fixture.
func DefaultSeed() (SeedFile, error) {
	return ParseSeed(bytes.NewReader(defaultSeed))
}

// ParseSeed decodes a YAML fixture and checks every entry.
func ParseSeed(r io.Reader) (SeedFile, error) {
	var sf SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil {
		return SeedFile{}, fmt.Errorf("failed to decode seed file: %w", err)
	}
	for i, p := range sf.People {
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Major) == "" || strings.TrimSpace(p.ImageURL) == "" {
			return SeedFile{}, fmt.Errorf("seed entry %d: name, major and imageUrl are required", i)
		}
		if p.Year < models.MinPersonYear || p.Year > models.MaxPersonYear {
			return SeedFile{}, fmt.Errorf("seed entry %d: year %d out of range", i, p.Year)
		}
	}
	return sf, nil
}

// Seed wipes people, comments and the gallery state, then inserts the
// fixture people and a hidden gallery. It runs in one transaction.
func Seed(db *gorm.DB, sf SeedFile) ([]models.Person, error) {
	var created []models.Person
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to clear comments: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Person{}).Error; err != nil {
			return fmt.Errorf("failed to clear people: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.GalleryState{}).Error; err != nil {
			return fmt.Errorf("failed to clear gallery state: %w", err)
		}

		for _, sp := range sf.People {
			p := models.Person{
				Name:     strings.TrimSpace(sp.Name),
				Major:    strings.TrimSpace(sp.Major),
				Year:     sp.Year,
				ImageURL: strings.TrimSpace(sp.ImageURL),
			}
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("failed to create person %s: %w", p.Name, err)
			}
			created = append(created, p)
		}

		state := models.GalleryState{ID: models.GalleryStateID, IsReleased: false}
		if err := tx.Create(&state).Error; err != nil {
			return fmt.Errorf("failed to create gallery state: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
