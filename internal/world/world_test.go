package world

import (
	"errors"
	"math"
	"testing"

	"github.com/napolitain/idlelink/internal/models"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < eps
}

// newTestWorld creates a world with one unlocked location named Rath
func newTestWorld(t *testing.T) *World {
	t.Helper()
	w := New()
	if _, err := w.AddLocation(LocationConfig{Name: "Rath", Unlocked: true}); err != nil {
		t.Fatalf("AddLocation failed: %v", err)
	}
	return w
}

func mustBuilding(t *testing.T, w *World, cfg BuildingConfig) *Building {
	t.Helper()
	if cfg.Location == "" {
		cfg.Location = "Rath"
	}
	b, err := w.AddBuilding(cfg)
	if err != nil {
		t.Fatalf("AddBuilding(%s) failed: %v", cfg.Name, err)
	}
	return b
}

func mustResource(t *testing.T, w *World, cfg ResourceConfig) *Resource {
	t.Helper()
	r, err := w.AddResource(cfg)
	if err != nil {
		t.Fatalf("AddResource(%s) failed: %v", cfg.Name, err)
	}
	return r
}

func mustFinal(t *testing.T, o *Object, prop string) float64 {
	t.Helper()
	v, err := o.Final(prop)
	if err != nil {
		t.Fatalf("Final(%s) failed: %v", o.Ref(prop), err)
	}
	return v
}

func TestRegistryDuplicateNames(t *testing.T) {
	w := newTestWorld(t)
	mustBuilding(t, w, BuildingConfig{Name: "Burrow"})
	mustResource(t, w, ResourceConfig{Name: "Grain"})

	if _, err := w.AddLocation(LocationConfig{Name: "Rath"}); !errors.Is(err, models.ErrDuplicateName) {
		t.Errorf("duplicate location: got %v, want ErrDuplicateName", err)
	}
	if _, err := w.AddBuilding(BuildingConfig{Name: "Burrow", Location: "Rath"}); !errors.Is(err, models.ErrDuplicateName) {
		t.Errorf("duplicate building: got %v, want ErrDuplicateName", err)
	}
	if _, err := w.AddResource(ResourceConfig{Name: "Grain"}); !errors.Is(err, models.ErrDuplicateName) {
		t.Errorf("duplicate resource: got %v, want ErrDuplicateName", err)
	}
}

func TestRegistryNamesAreScopedPerKind(t *testing.T) {
	w := newTestWorld(t)
	mustBuilding(t, w, BuildingConfig{Name: "Grain"})
	mustResource(t, w, ResourceConfig{Name: "Grain"})
}

func TestAddBuildingUnknownLocation(t *testing.T) {
	w := New()
	_, err := w.AddBuilding(BuildingConfig{Name: "Burrow", Location: "Nowhere"})
	if !errors.Is(err, models.ErrUnknownLocation) {
		t.Fatalf("got %v, want ErrUnknownLocation", err)
	}
	if _, ok := w.Building("Burrow"); ok {
		t.Error("failed registration must not leave the building behind")
	}
}

func TestAddBuildingAppendsToLocation(t *testing.T) {
	w := newTestWorld(t)
	a := mustBuilding(t, w, BuildingConfig{Name: "Foraging Zone"})
	b := mustBuilding(t, w, BuildingConfig{Name: "Burrow"})

	loc, _ := w.Location("Rath")
	if len(loc.Buildings) != 2 || loc.Buildings[0] != a || loc.Buildings[1] != b {
		t.Errorf("location buildings = %v", loc.Buildings)
	}
	if a.Location() != "Rath" {
		t.Errorf("Location() = %q", a.Location())
	}
}

func TestAddObjectRejectsBadLinks(t *testing.T) {
	w := newTestWorld(t)
	_, err := w.AddBuilding(BuildingConfig{
		Name:     "Burrow",
		Location: "Rath",
		Links:    []LinkSpec{{From: "Building.Burrow", To: "Resource.Grain.production", Config: models.LinkConfig{Operation: models.Multiply(1)}}},
	})
	if !errors.Is(err, models.ErrParse) {
		t.Errorf("got %v, want ErrParse", err)
	}

	_, err = w.AddResource(ResourceConfig{
		Name:  "Grain",
		Links: []LinkSpec{{From: "Location.Rath.unlocked", To: "Resource.Grain.production", Config: models.LinkConfig{Operation: models.Multiply(1)}}},
	})
	if !errors.Is(err, models.ErrUnknownKind) {
		t.Errorf("got %v, want ErrUnknownKind", err)
	}
}

func TestBaseOverrideMustBeLinkable(t *testing.T) {
	w := newTestWorld(t)
	_, err := w.AddBuilding(BuildingConfig{
		Name:     "Burrow",
		Location: "Rath",
		Base:     map[string]models.LinkedPropertyValue{models.PropOwned: {Flat: 3, Ratio: 1}},
	})
	if err == nil {
		t.Error("owned is not linkable; override should fail")
	}
}

func TestDefaults(t *testing.T) {
	w := newTestWorld(t)
	b := mustBuilding(t, w, BuildingConfig{Name: "Burrow"})
	r := mustResource(t, w, ResourceConfig{Name: "Grain"})

	if v := mustFinal(t, &b.Object, models.PropSpace); v != DefaultSpace {
		t.Errorf("space = %v, want %v", v, DefaultSpace)
	}
	if v := mustFinal(t, &b.Object, models.PropPriceRatio); v != DefaultPriceRatio {
		t.Errorf("priceRatio = %v, want %v", v, DefaultPriceRatio)
	}
	if v := mustFinal(t, &r.Object, models.PropMaxAmount); v != DefaultMaxAmount {
		t.Errorf("maxAmount = %v, want %v", v, DefaultMaxAmount)
	}
	if v := mustFinal(t, &r.Object, models.PropProduction); v != 0 {
		t.Errorf("production = %v, want 0", v)
	}
	if r.Rarity != models.RarityCommon {
		t.Errorf("default rarity = %+v", r.Rarity)
	}
	if b.DisplayName != "Burrow" {
		t.Errorf("display name should default to name, got %q", b.DisplayName)
	}
}

func TestCompositionCorrectness(t *testing.T) {
	w := newTestWorld(t)
	mustBuilding(t, w, BuildingConfig{
		Name:  "Burrow",
		Owned: 5,
		Links: []LinkSpec{{From: "Building.Burrow.owned", To: "Resource.Mice.maxAmount", Config: models.LinkConfig{Operation: models.Multiply(1)}}},
	})
	mustBuilding(t, w, BuildingConfig{
		Name:  "Nest",
		Owned: 1,
		Links: []LinkSpec{{From: "Building.Nest.owned", To: "Resource.Mice.maxAmount", Config: models.LinkConfig{Operation: models.Multiply(0.2), Mode: models.ModeRatio}}},
	})
	mice := mustResource(t, w, ResourceConfig{
		Name: "Mice",
		Base: map[string]models.LinkedPropertyValue{models.PropMaxAmount: {Flat: 10, Ratio: 1}},
	})

	linked, err := mice.Linked(models.PropMaxAmount)
	if err != nil {
		t.Fatalf("Linked failed: %v", err)
	}
	if !approx(linked.Flat, 15) || !approx(linked.Ratio, 1.2) {
		t.Errorf("linked = %+v, want {15 1.2}", linked)
	}

	limit, err := mice.MaxAmount()
	if err != nil {
		t.Fatalf("MaxAmount failed: %v", err)
	}
	if !approx(limit, 18) {
		t.Errorf("maxAmount = %v, want 18", limit)
	}
}

func TestDerivedValuesFollowSources(t *testing.T) {
	w := newTestWorld(t)
	burrow := mustBuilding(t, w, BuildingConfig{
		Name:  "Burrow",
		Links: []LinkSpec{{From: "Building.Burrow.owned", To: "Resource.Grain.production", Config: models.LinkConfig{Operation: models.Multiply(0.5)}}},
	})
	grain := mustResource(t, w, ResourceConfig{Name: "Grain"})

	prod, _ := grain.Production()
	if prod != 0 {
		t.Fatalf("production with no burrows = %v, want 0", prod)
	}

	if err := burrow.SetOwned(4); err != nil {
		t.Fatalf("SetOwned failed: %v", err)
	}
	prod, _ = grain.Production()
	if prod != 2 {
		t.Errorf("production with 4 burrows = %v, want 2", prod)
	}

	if err := grain.SetBaseValue(models.PropProduction, models.LinkedPropertyValue{Flat: 1, Ratio: 2}); err != nil {
		t.Fatalf("SetBaseValue failed: %v", err)
	}
	prod, _ = grain.Production()
	if prod != 6 {
		t.Errorf("production after base change = %v, want (1+2)*2 = 6", prod)
	}
}

func TestLinkChainThroughLinkableSource(t *testing.T) {
	w := newTestWorld(t)
	mustBuilding(t, w, BuildingConfig{
		Name:  "Burrow",
		Owned: 2,
		Links: []LinkSpec{{From: "Building.Burrow.owned", To: "Resource.Grain.production", Config: models.LinkConfig{Operation: models.Multiply(0.5)}}},
	})
	mustResource(t, w, ResourceConfig{
		Name:  "Grain",
		Links: []LinkSpec{{From: "Resource.Grain.production", To: "Resource.Seeds.maxAmount", Config: models.LinkConfig{Operation: models.Multiply(10)}}},
	})
	seeds := mustResource(t, w, ResourceConfig{Name: "Seeds"})

	limit, err := seeds.MaxAmount()
	if err != nil {
		t.Fatalf("MaxAmount failed: %v", err)
	}
	// 100 base + 10 * (2 * 0.5)
	if limit != 110 {
		t.Errorf("seeds maxAmount = %v, want 110", limit)
	}
}

func TestValueNotFound(t *testing.T) {
	w := newTestWorld(t)
	mustBuilding(t, w, BuildingConfig{Name: "Burrow"})

	tests := []models.PropertyRef{
		models.Ref(models.KindBuilding, "Castle", models.PropOwned),
		models.Ref(models.KindResource, "Burrow", models.PropAmount),
		models.Ref(models.KindBuilding, "Burrow", "colour"),
	}
	for _, ref := range tests {
		t.Run(ref.String(), func(t *testing.T) {
			if _, err := w.Value(ref); !errors.Is(err, models.ErrNotFound) {
				t.Errorf("Value(%s) error = %v, want ErrNotFound", ref, err)
			}
		})
	}

	if _, err := w.Value(models.Ref("Location", "Rath", "unlocked")); !errors.Is(err, models.ErrUnknownKind) {
		t.Errorf("unknown kind error = %v", err)
	}
}

func TestDuplicateLinkAcrossObjects(t *testing.T) {
	spec := LinkSpec{From: "Building.Burrow.owned", To: "Resource.Grain.production", Config: models.LinkConfig{Operation: models.Multiply(0.5)}}

	w := newTestWorld(t)
	mustBuilding(t, w, BuildingConfig{Name: "Burrow", Links: []LinkSpec{spec}})
	grain := mustResource(t, w, ResourceConfig{Name: "Grain", Links: []LinkSpec{spec}})

	if _, err := w.Index(); !errors.Is(err, models.ErrDuplicateLink) {
		t.Errorf("Index error = %v, want ErrDuplicateLink", err)
	}
	if _, err := grain.Production(); !errors.Is(err, models.ErrDuplicateLink) {
		t.Errorf("Production error = %v, want ErrDuplicateLink", err)
	}
	if err := w.Validate(); !errors.Is(err, models.ErrDuplicateLink) {
		t.Errorf("Validate error = %v, want ErrDuplicateLink", err)
	}
}

func TestValidate(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		w := newTestWorld(t)
		mustBuilding(t, w, BuildingConfig{
			Name:  "Burrow",
			Links: []LinkSpec{{From: "Building.Burrow.owned", To: "Resource.Grain.production", Config: models.LinkConfig{Operation: models.Multiply(0.5)}}},
		})
		mustResource(t, w, ResourceConfig{Name: "Grain"})
		if err := w.Validate(); err != nil {
			t.Errorf("Validate failed: %v", err)
		}
	})

	t.Run("missing source", func(t *testing.T) {
		w := newTestWorld(t)
		mustResource(t, w, ResourceConfig{
			Name:  "Grain",
			Links: []LinkSpec{{From: "Building.Granary.owned", To: "Resource.Grain.maxAmount", Config: models.LinkConfig{Operation: models.Multiply(50)}}},
		})
		if err := w.Validate(); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Validate error = %v, want ErrNotFound", err)
		}
	})

	t.Run("target not linkable", func(t *testing.T) {
		w := newTestWorld(t)
		mustBuilding(t, w, BuildingConfig{
			Name:  "Burrow",
			Links: []LinkSpec{{From: "Building.Burrow.space", To: "Resource.Grain.amount", Config: models.LinkConfig{Operation: models.Multiply(1)}}},
		})
		mustResource(t, w, ResourceConfig{Name: "Grain"})
		if err := w.Validate(); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Validate error = %v, want ErrNotFound", err)
		}
	})
}

func TestIncomingOutgoingLinks(t *testing.T) {
	w := newTestWorld(t)
	burrow := mustBuilding(t, w, BuildingConfig{
		Name: "Burrow",
		Links: []LinkSpec{
			{From: "Building.Burrow.owned", To: "Resource.Grain.production", Config: models.LinkConfig{Operation: models.Multiply(0.5)}},
			{From: "Building.Burrow.owned", To: "Resource.Grain.maxAmount", Config: models.LinkConfig{Operation: models.Multiply(20)}},
		},
	})
	grain := mustResource(t, w, ResourceConfig{Name: "Grain"})

	out, err := burrow.OutgoingLinks()
	if err != nil || len(out) != 2 {
		t.Errorf("burrow outgoing = %d, %v; want 2", len(out), err)
	}
	in, err := grain.IncomingLinks()
	if err != nil || len(in) != 2 {
		t.Errorf("grain incoming = %d, %v; want 2", len(in), err)
	}
	if in, _ := burrow.IncomingLinks(); len(in) != 0 {
		t.Errorf("burrow incoming = %d, want 0", len(in))
	}
	if len(grain.Links()) != 0 || len(burrow.Links()) != 2 {
		t.Error("links should stay with the object that declared them")
	}
}

func TestRevisionAndMemo(t *testing.T) {
	w := newTestWorld(t)
	grain := mustResource(t, w, ResourceConfig{Name: "Grain"})

	rev := w.Revision()
	if _, err := grain.MaxAmount(); err != nil {
		t.Fatal(err)
	}
	if w.Revision() != rev {
		t.Error("reads must not bump the revision")
	}

	grain.SetAmount(10)
	if w.Revision() == rev {
		t.Error("SetAmount must bump the revision")
	}

	grain.SetAmount(-5)
	if grain.Amount() != 0 {
		t.Errorf("SetAmount(-5) left %v, want 0", grain.Amount())
	}
}

func TestTimeToFull(t *testing.T) {
	w := newTestWorld(t)
	grain := mustResource(t, w, ResourceConfig{
		Name:   "Grain",
		Amount: 40,
		Base:   map[string]models.LinkedPropertyValue{models.PropProduction: {Flat: 2, Ratio: 1}},
	})
	sec, err := grain.TimeToFull()
	if err != nil || sec != 30 {
		t.Errorf("TimeToFull = %v, %v; want 30", sec, err)
	}

	idle := mustResource(t, w, ResourceConfig{Name: "Stone"})
	if sec, _ := idle.TimeToFull(); !math.IsInf(sec, 1) {
		t.Errorf("TimeToFull without production = %v, want +Inf", sec)
	}

	full := mustResource(t, w, ResourceConfig{Name: "Iron", Amount: 100})
	if sec, _ := full.TimeToFull(); sec != 0 {
		t.Errorf("TimeToFull when full = %v, want 0", sec)
	}
}
