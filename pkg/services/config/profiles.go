package config

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/ini.v1"
)

var ErrProfileNotFound = errors.New("profile not found")

// Profiles reads destination profiles from an ini file:
//
//	[warehouse]
//	destination = duckdb:///var/lib/fleximart/fleximart.db
type Profiles interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetDestination(ctx context.Context, profile string) (string, error)
}

type iniProfiles struct {
	cfg *ini.File
}

func NewProfiles(path string) (Profiles, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &iniProfiles{cfg: cfg}, nil
}

func (p *iniProfiles) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range p.cfg.Sections() {
		if section.HasKey("destination") {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (p *iniProfiles) GetDestination(_ context.Context, profile string) (string, error) {
	section, err := p.cfg.GetSection(profile)
	if err != nil || !section.HasKey("destination") {
		return "", fmt.Errorf("%w: %s", ErrProfileNotFound, profile)
	}
	return section.Key("destination").String(), nil
}
