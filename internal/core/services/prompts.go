package services

import (
	"fmt"
	"strings"

	"modforge-service/internal/core/domain"
)

const (
	maxPromptSources     = 3
	maxPromptSourceRunes = 500
)

func generateSystemPrompt(loader domain.Loader, version string) string {
	return fmt.Sprintf(`You are an expert Minecraft mod developer.
Generate a ready-to-build mod for %s, Minecraft version %s.

Requirements:
1. Produce a complete mod layout with a main class
2. If textures are needed, say where they belong
3. Include a build.gradle file
4. The code must compile without errors
5. Follow current mod development practice

Return JSON with the fields:
- modName: mod name
- mainClass: source of the main class
- buildGradle: contents of build.gradle
- files: array of objects {path: "path", content: "content"}
- textureNeeded: true/false, whether AI texture generation is needed
`, strings.ToUpper(string(loader)), version)
}

const chatSystemPrompt = `You are an AI assistant that updates Minecraft mods.
The user describes what to change or add to the mod.

Return JSON with the fields:
- aiMessage: a friendly reply telling the user what you did
- updatedCode: the updated mod structure (mainClass, files, buildGradle)
- changes: array of changes, e.g. ["added a new item", "increased durability"]
`

func portSystemPrompt(loader domain.Loader, version string) string {
	return fmt.Sprintf(`You are an expert at porting Minecraft mods.
Analyse the mod code and port it to %s, Minecraft version %s.

When porting:
1. Update imports for the new API version
2. Replace deprecated methods with current ones
3. Adapt item/block registration
4. Update mappings and events
5. Fix breaking changes between versions

Return JSON:
- modName: mod name
- mainClass: the updated main class
- buildGradle: a new build.gradle for the target version
- files: array of ported files
- changes: list of the main changes
`, strings.ToUpper(string(loader)), version)
}

func chatUserPrompt(codeContext, message string) string {
	return fmt.Sprintf("Current mod code:\n%s\n\nRequest: %s", codeContext, message)
}

// portUserPrompt summarises the first few Java sources, each cut to a prefix
func portUserPrompt(sources []domain.SourceFile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d Java files:\n", len(sources))
	for i, f := range sources {
		if i == maxPromptSources {
			break
		}
		fmt.Fprintf(&b, "\n%s:\n%s...\n", f.Path, truncateRunes(f.Content, maxPromptSourceRunes))
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
