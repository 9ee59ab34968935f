package main

import (
	"testing"

	"github.com/quayside/shipwright/internal/domain/entities"
)

func TestReleasePlanDefaultsTitle(t *testing.T) {
	manifest := entities.DefaultManifest("widget")
	manifest.Version = "v1.2.3"

	plan := releasePlan(manifest, "", false, []string{"dist/widget-v1.2.3.tar.gz"})

	if plan.Tag != "v1.2.3" {
		t.Errorf("Tag = %s, want v1.2.3", plan.Tag)
	}
	if plan.Title != "widget v1.2.3" {
		t.Errorf("Title = %s, want \"widget v1.2.3\"", plan.Title)
	}
	if plan.Draft {
		t.Error("Draft should default to false")
	}
	if len(plan.Assets) != 1 || plan.Assets[0] != "dist/widget-v1.2.3.tar.gz" {
		t.Errorf("unexpected assets: %v", plan.Assets)
	}
}

func TestReleasePlanKeepsExplicitTitle(t *testing.T) {
	manifest := entities.DefaultManifest("widget")
	manifest.Version = "v2.0.0"

	plan := releasePlan(manifest, "Maintenance release", true, nil)

	if plan.Title != "Maintenance release" {
		t.Errorf("Title = %s, want explicit title kept", plan.Title)
	}
	if !plan.Draft {
		t.Error("Draft flag lost")
	}
}
