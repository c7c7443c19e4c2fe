package game

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

var (
	ErrEmptyCommand     = errors.New("empty command")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrAmbiguousCommand = errors.New("ambiguous command")
)

const (
	verbNorth  = "north"
	verbSouth  = "south"
	verbEast   = "east"
	verbWest   = "west"
	verbTake   = "take"
	verbCenter = "center"
	verbPan    = "pan"
)

var commandAliases = map[string]string{
	"north": verbNorth, "n": verbNorth, "up": verbNorth,
	"south": verbSouth, "s": verbSouth, "down": verbSouth,
	"east": verbEast, "e": verbEast, "right": verbEast,
	"west": verbWest, "w": verbWest, "left": verbWest,
	"take": verbTake, "pick": verbTake, "drop": verbTake, "craft": verbTake, "click": verbTake, "use": verbTake,
	"center": verbCenter, "recenter": verbCenter, "home": verbCenter,
	"pan": verbPan, "look": verbPan,
}

var directionVerbs = map[string]MoveCommand{
	verbNorth: North,
	verbSouth: South,
	verbEast:  East,
	verbWest:  West,
}

// ParseCommand turns typed text such as "go nroth", "take" or "pan east" into
// an input event. Misspelled words are matched to the closest known command.
// selected is the cell "take" acts on.
func ParseCommand(text string, selected Coord) (InputEvent, error) {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) > 0 && (tokens[0] == "go" || tokens[0] == "move") {
		tokens = tokens[1:]
	}
	if len(tokens) == 0 {
		return nil, ErrEmptyCommand
	}

	verb, err := resolveVerb(tokens[0])
	if err != nil {
		return nil, err
	}

	switch verb {
	case verbTake:
		return InteractCommand{Target: selected}, nil
	case verbCenter:
		return RecenterCommand{}, nil
	case verbPan:
		if len(tokens) < 2 {
			return nil, fmt.Errorf("%w: pan needs a direction", ErrUnknownCommand)
		}
		dirVerb, err := resolveVerb(tokens[1])
		if err != nil {
			return nil, err
		}
		dir, ok := directionVerbs[dirVerb]
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a direction", ErrUnknownCommand, tokens[1])
		}
		return PanCommand(dir), nil
	}

	return directionVerbs[verb], nil
}

func resolveVerb(token string) (string, error) {
	if verb, ok := commandAliases[token]; ok {
		return verb, nil
	}

	type candidate struct {
		verb string
		dist int
	}
	var candidates []candidate
	seen := make(map[string]bool)
	for alias, verb := range commandAliases {
		if len(token) >= 2 && len(alias) > 1 && strings.HasPrefix(alias, token) {
			if !seen[verb] {
				candidates = append(candidates, candidate{verb: verb, dist: 0})
				seen[verb] = true
			}
			continue
		}
		if len(token) < 3 || len(alias) < 3 {
			continue
		}
		dist := levenshtein.ComputeDistance(token, alias)
		if dist > levenshteinLimit(len(alias)) {
			continue
		}
		candidates = append(candidates, candidate{verb: verb, dist: dist})
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, token)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].dist == candidates[j].dist {
			return candidates[i].verb < candidates[j].verb
		}
		return candidates[i].dist < candidates[j].dist
	})

	best := candidates[0]
	for _, other := range candidates[1:] {
		if other.dist != best.dist {
			break
		}
		if other.verb != best.verb {
			return "", fmt.Errorf("%w: %q could be %s or %s", ErrAmbiguousCommand, token, best.verb, other.verb)
		}
	}
	return best.verb, nil
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
