package services

import (
	"encoding/json"
	"strings"

	"modforge-service/internal/core/domain"
)

const (
	DefaultChatMessage  = "Done!"
	FallbackChatMessage = "Got it! Updating the mod as requested."
	FallbackChatChange  = "Update applied"
)

// ExtractJSONObject recovers a JSON object from free-form model output.
//
// The whole reply is tried first. Otherwise every '{' is treated as a possible
// start and one value is decoded from there; the longest span that decodes to
// an object wins. Starts inside an accepted span are skipped, so a nested
// object never beats its parent, and braces inside string literals are handled
// by the decoder rather than by counting.
func ExtractJSONObject(reply string) (map[string]json.RawMessage, error) {
	raw := strings.TrimSpace(reply)

	var whole map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &whole); err == nil && whole != nil {
		return whole, nil
	}

	var best map[string]json.RawMessage
	bestLen := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' {
			continue
		}

		dec := json.NewDecoder(strings.NewReader(raw[i:]))
		var candidate map[string]json.RawMessage
		if err := dec.Decode(&candidate); err != nil {
			continue
		}

		n := int(dec.InputOffset())
		if n > bestLen {
			best, bestLen = candidate, n
		}
		i += n - 1
	}

	if best == nil {
		return nil, domain.ErrInterpretation
	}
	return best, nil
}

// InterpretArtifact turns a model reply into a complete ModArtifact. Text fields
// the model left out come from base; files and changes default to empty and
// textureNeeded to false.
func InterpretArtifact(reply string, base domain.ModArtifact) (domain.ModArtifact, error) {
	fields, err := ExtractJSONObject(reply)
	if err != nil {
		return domain.ModArtifact{}, err
	}
	return artifactFromFields(fields, base), nil
}

// ArtifactFromJSON reads an artifact supplied by a client. Fields with the wrong
// JSON type are dropped instead of failing the whole document, and anything
// that is not an object yields the empty artifact.
func ArtifactFromJSON(raw json.RawMessage) domain.ModArtifact {
	var fields map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &fields) != nil || fields == nil {
		return domain.ModArtifact{Files: []domain.SourceFile{}, Changes: []string{}}
	}
	return artifactFromFields(fields, domain.ModArtifact{})
}

func artifactFromFields(fields map[string]json.RawMessage, base domain.ModArtifact) domain.ModArtifact {
	a := domain.ModArtifact{
		ModName:       stringField(fields, "modName", base.ModName),
		MainClass:     stringField(fields, "mainClass", base.MainClass),
		BuildGradle:   stringField(fields, "buildGradle", base.BuildGradle),
		Files:         filesField(fields, "files"),
		TextureNeeded: boolField(fields, "textureNeeded", false),
		Changes:       stringsField(fields, "changes"),
		AIMessage:     stringField(fields, "aiMessage", ""),
	}
	a.Normalize()
	return a
}

// InterpretChat turns a chat reply into a ChatResult. The model's updatedCode is
// laid over current, so anything it omits keeps its current value. A reply with
// no recoverable object yields ErrInterpretation.
func InterpretChat(reply string, current domain.ModArtifact) (domain.ChatResult, error) {
	fields, err := ExtractJSONObject(reply)
	if err != nil {
		return domain.ChatResult{}, err
	}

	return domain.ChatResult{
		AIMessage:   stringField(fields, "aiMessage", DefaultChatMessage),
		UpdatedCode: mergeArtifact(current, fields["updatedCode"]),
		Changes:     stringsField(fields, "changes"),
	}, nil
}

// FallbackChatResult is what chat answers when the reply cannot be interpreted
func FallbackChatResult(current domain.ModArtifact) domain.ChatResult {
	code := current.Clone()
	code.Normalize()
	return domain.ChatResult{
		AIMessage:   FallbackChatMessage,
		UpdatedCode: code,
		Changes:     []string{FallbackChatChange},
	}
}

func mergeArtifact(current domain.ModArtifact, raw json.RawMessage) domain.ModArtifact {
	out := current.Clone()
	if len(raw) > 0 {
		merged := current.Clone()
		if err := json.Unmarshal(raw, &merged); err == nil {
			out = merged
		}
	}
	out.Normalize()
	return out
}

// ============================================================================
// Field readers. A field with the wrong JSON type counts as missing.
// ============================================================================

func stringField(fields map[string]json.RawMessage, key, def string) string {
	var s string
	if raw, ok := fields[key]; ok && json.Unmarshal(raw, &s) == nil && string(raw) != "null" {
		return s
	}
	return def
}

func boolField(fields map[string]json.RawMessage, key string, def bool) bool {
	var b bool
	if raw, ok := fields[key]; ok && json.Unmarshal(raw, &b) == nil && string(raw) != "null" {
		return b
	}
	return def
}

func stringsField(fields map[string]json.RawMessage, key string) []string {
	var out []string
	if raw, ok := fields[key]; ok && json.Unmarshal(raw, &out) == nil && out != nil {
		return out
	}
	return []string{}
}

func filesField(fields map[string]json.RawMessage, key string) []domain.SourceFile {
	var out []domain.SourceFile
	if raw, ok := fields[key]; ok && json.Unmarshal(raw, &out) == nil && out != nil {
		return out
	}
	return []domain.SourceFile{}
}
