package main

import (
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/oliverbestmann/kindstore"
	"github.com/oliverbestmann/kindstore/entity"
	"github.com/oliverbestmann/kindstore/gm"
	"github.com/oliverbestmann/kindstore/kinds"
	"github.com/oliverbestmann/kindstore/property"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Scenario describes the initial state of a simulation.
type Scenario struct {
	Frames   int              `yaml:"frames"`
	Step     time.Duration    `yaml:"step"`
	Entities []ScenarioEntity `yaml:"entities"`
}

type ScenarioEntity struct {
	Id entity.Id `yaml:"id"`

	// Transform is shared between the game and the graphic view of the entity.
	Transform *gm.Vec3 `yaml:"transform"`

	// Components maps the name of a kind to its construction properties.
	Components map[string]map[string]any `yaml:"components"`
}

func LoadScenario(path string) (*Scenario, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open scenario %q", path)
	}

	defer fp.Close()

	return ParseScenario(fp)
}

func ParseScenario(r io.Reader) (*Scenario, error) {
	var scenario Scenario

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&scenario); err != nil {
		return nil, eris.Wrap(err, "decode scenario")
	}

	if scenario.Step <= 0 {
		scenario.Step = time.Second / 60
	}

	for _, e := range scenario.Entities {
		if e.Id == entity.None {
			return nil, eris.New("scenario contains an entity without id")
		}
	}

	return &scenario, nil
}

// linking kinds are created after all other components were committed, as their
// initializers read committed values of other entities.
var linkingKinds = []kindstore.KindId{kinds.ReferenceFrameId}

// Apply creates the components of all entities and returns the number of components
// that could not be created. The world is committed under frame 0.
func (s *Scenario) Apply(w *kindstore.World) (failed int) {
	byName := map[string]kindstore.KindId{}
	for _, kind := range w.Kinds() {
		byName[kind.Name()] = kind.Id()
	}

	create := func(e ScenarioEntity, name string, linking bool) {
		id, ok := byName[name]
		if !ok {
			if !linking {
				w.Logger().Error("Unknown component kind in scenario",
					slog.String("kind", name),
					slog.Any("entity", e.Id))

				failed++
			}

			return
		}

		if slices.Contains(linkingKinds, id) != linking {
			return
		}

		if err := w.CreateComponent(e.Id, id, propertiesOf(e.Id, e.Components[name])); err != nil {
			failed++
		}
	}

	for _, e := range s.Entities {
		if e.Transform != nil {
			kinds.InsertTransform(w, e.Id, gm.IdentityTransform().Translated(*e.Transform))
		}

		for _, name := range slices.Sorted(maps.Keys(e.Components)) {
			create(e, name, false)
		}
	}

	w.CommitAll(0)

	for _, e := range s.Entities {
		for _, name := range slices.Sorted(maps.Keys(e.Components)) {
			create(e, name, true)
		}
	}

	return failed
}

// propertiesOf converts the properties of a component into a property.List ordered by name.
// The entity_id property is added if missing.
func propertiesOf(e entity.Id, values map[string]any) property.List {
	var props property.List

	for _, name := range slices.Sorted(maps.Keys(values)) {
		props = append(props, property.New(name, values[name]))
	}

	if !props.Has(property.EntityId) {
		props = append(props, property.New(property.EntityId, uint32(e)))
	}

	return props
}
