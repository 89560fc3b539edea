package services

import (
	"bytes"
	"encoding/json"
	"path"
	"strings"
	"text/template"
	"unicode"

	"github.com/pelletier/go-toml/v2"

	"modforge-service/internal/core/domain"
)

const (
	maxModNameRunes   = 30
	defaultModName    = "MyMod"
	portedModName     = "PortedMod"
	noJavaPlaceholder = "// No Java files found"
	portChange        = "Basic project structure conversion"

	forgeBuild = "47.1.0"
	fabricLoom = "1.6-SNAPSHOT"
	fabricBase = "0.15.11"
)

// modTemplateData feeds every template below
type modTemplateData struct {
	ModName     string
	ModID       string
	ClassName   string
	Version     string // minecraft version
	ModVersion  string
	Description string
}

var templateFuncs = template.FuncMap{"java": javaString}

var (
	forgeMainTmpl = template.Must(template.New("forge-main").Funcs(templateFuncs).Parse(`package com.example.{{.ModID}};

import net.minecraftforge.fml.common.Mod;
import net.minecraftforge.fml.event.lifecycle.FMLCommonSetupEvent;
import net.minecraftforge.eventbus.api.SubscribeEvent;

@Mod("{{.ModID}}")
public class {{.ClassName}}Mod {
    public static final String MOD_ID = "{{.ModID}}";

    public {{.ClassName}}Mod() {
        System.out.println("Loading {{java .ModName}} Mod!");
    }

    @SubscribeEvent
    public void setup(FMLCommonSetupEvent event) {
        System.out.println("{{java .ModName}} mod setup complete!");
    }
}
`))

	neoforgeMainTmpl = template.Must(template.New("neoforge-main").Funcs(templateFuncs).Parse(`package com.example.{{.ModID}};

import net.neoforged.bus.api.IEventBus;
import net.neoforged.fml.common.Mod;
import net.neoforged.fml.event.lifecycle.FMLCommonSetupEvent;

@Mod({{.ClassName}}Mod.MOD_ID)
public class {{.ClassName}}Mod {
    public static final String MOD_ID = "{{.ModID}}";

    public {{.ClassName}}Mod(IEventBus modEventBus) {
        modEventBus.addListener(this::setup);
        System.out.println("Loading {{java .ModName}} Mod!");
    }

    private void setup(FMLCommonSetupEvent event) {
        System.out.println("{{java .ModName}} mod setup complete!");
    }
}
`))

	fabricMainTmpl = template.Must(template.New("fabric-main").Funcs(templateFuncs).Parse(`package com.example.{{.ModID}};

import net.fabricmc.api.ModInitializer;

public class {{.ClassName}}Mod implements ModInitializer {
    public static final String MOD_ID = "{{.ModID}}";

    @Override
    public void onInitialize() {
        System.out.println("Loading {{java .ModName}} Mod!");
    }
}
`))

	forgeGradleTmpl = template.Must(template.New("forge-gradle").Parse(`plugins {
    id 'net.minecraftforge.gradle' version '5.1.+'
}

group = 'com.example'
version = '{{.ModVersion}}'

java {
    toolchain.languageVersion = JavaLanguageVersion.of(17)
}

minecraft {
    mappings channel: 'official', version: '{{.Version}}'
}

dependencies {
    minecraft 'net.minecraftforge:forge:{{.Version}}-` + forgeBuild + `'
}
`))

	neoforgeGradleTmpl = template.Must(template.New("neoforge-gradle").Parse(`plugins {
    id 'net.neoforged.gradle.userdev' version '7.0.+'
}

group = 'com.example'
version = '{{.ModVersion}}'

java {
    toolchain.languageVersion = JavaLanguageVersion.of(21)
}

minecraft {
    mappings channel: 'official', version: '{{.Version}}'
}

dependencies {
    implementation 'net.neoforged:neoforge:{{.Version}}'
}
`))

	fabricGradleTmpl = template.Must(template.New("fabric-gradle").Parse(`plugins {
    id 'fabric-loom' version '` + fabricLoom + `'
}

group = 'com.example'
version = '{{.ModVersion}}'

java {
    toolchain.languageVersion = JavaLanguageVersion.of(17)
}

dependencies {
    minecraft 'com.mojang:minecraft:{{.Version}}'
    mappings loom.officialMojangMappings()
    modImplementation 'net.fabricmc:fabric-loader:` + fabricBase + `'
}
`))
)

// ============================================================================
// Metadata documents
// ============================================================================

type modsTOML struct {
	ModLoader     string        `toml:"modLoader"`
	LoaderVersion string        `toml:"loaderVersion"`
	License       string        `toml:"license"`
	Mods          []modsTOMLMod `toml:"mods"`
}

type modsTOMLMod struct {
	ModID       string `toml:"modId"`
	Version     string `toml:"version"`
	DisplayName string `toml:"displayName"`
	Description string `toml:"description,omitempty"`
}

type fabricModJSON struct {
	SchemaVersion int    `json:"schemaVersion"`
	ID            string `json:"id"`
	Version       string `json:"version"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Environment   string `json:"environment,omitempty"`
	Entrypoints   struct {
		Main []string `json:"main"`
	} `json:"entrypoints"`
	Depends map[string]string `json:"depends,omitempty"`
}

// ============================================================================
// Demo generation
// ============================================================================

// DeriveModName takes the first 30 characters of the description and strips
// all whitespace from them.
func DeriveModName(description string) string {
	runes := []rune(description)
	if len(runes) > maxModNameRunes {
		runes = runes[:maxModNameRunes]
	}
	name := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, string(runes))
	if name == "" {
		return defaultModName
	}
	return name
}

// DemoMod builds a mod skeleton from the description alone. Output depends only
// on its arguments.
func DemoMod(description string, loader domain.Loader, version string) domain.ModArtifact {
	data := newTemplateData(DeriveModName(description), version, "1.0.0")
	data.Description = description

	return domain.ModArtifact{
		ModName:     data.ModName,
		MainClass:   render(mainClassTemplate(loader), data),
		BuildGradle: render(buildGradleTemplate(loader), data),
		Files:       []domain.SourceFile{metadataFile(loader, data)},
		Changes:     []string{},
	}
}

// PortDemoMod is the port answer when no model is consulted: the first Java
// source becomes the main class and the build is retargeted to version.
func PortDemoMod(contents *domain.ArchiveContents, loader domain.Loader, version string) domain.ModArtifact {
	name := discoverModName(contents.ConfigFiles)
	if name == "" {
		name = portedModName
	}
	data := newTemplateData(name, version, "1.0.0-"+version)

	mainClass := noJavaPlaceholder
	if len(contents.SourceFiles) > 0 {
		mainClass = contents.SourceFiles[0].Content
	}

	files := append([]domain.SourceFile{}, contents.ConfigFiles...)

	return domain.ModArtifact{
		ModName:     name,
		MainClass:   mainClass,
		BuildGradle: render(buildGradleTemplate(loader), data),
		Files:       files,
		Changes:     []string{portChange},
	}
}

func newTemplateData(name, version, modVersion string) modTemplateData {
	return modTemplateData{
		ModName:    name,
		ModID:      modID(name),
		ClassName:  className(name),
		Version:    version,
		ModVersion: modVersion,
	}
}

func mainClassTemplate(loader domain.Loader) *template.Template {
	switch {
	case loader == domain.LoaderNeoForge:
		return neoforgeMainTmpl
	case loader.UsesFabricMetadata():
		return fabricMainTmpl
	default:
		return forgeMainTmpl
	}
}

func buildGradleTemplate(loader domain.Loader) *template.Template {
	switch {
	case loader == domain.LoaderNeoForge:
		return neoforgeGradleTmpl
	case loader.UsesFabricMetadata():
		return fabricGradleTmpl
	default:
		return forgeGradleTmpl
	}
}

func metadataFile(loader domain.Loader, data modTemplateData) domain.SourceFile {
	if loader.UsesFabricMetadata() {
		doc := fabricModJSON{
			SchemaVersion: 1,
			ID:            data.ModID,
			Version:       data.ModVersion,
			Name:          data.ModName,
			Description:   data.Description,
			Environment:   "*",
			Depends: map[string]string{
				"fabricloader": ">=" + fabricBase,
				"minecraft":    "~" + data.Version,
			},
		}
		doc.Entrypoints.Main = []string{"com.example." + data.ModID + "." + data.ClassName + "Mod"}
		out, _ := json.MarshalIndent(doc, "", "  ")
		return domain.SourceFile{Path: "src/main/resources/fabric.mod.json", Content: string(out)}
	}

	loaderVersion := "[47,)"
	if loader == domain.LoaderNeoForge {
		loaderVersion = "[1,)"
	}
	doc := modsTOML{
		ModLoader:     "javafml",
		LoaderVersion: loaderVersion,
		License:       "MIT",
		Mods: []modsTOMLMod{{
			ModID:       data.ModID,
			Version:     data.ModVersion,
			DisplayName: data.ModName,
			Description: data.Description,
		}},
	}
	out, _ := toml.Marshal(doc)
	return domain.SourceFile{Path: "src/main/resources/META-INF/mods.toml", Content: string(out)}
}

// discoverModName reads the display name out of packaged loader metadata
func discoverModName(files []domain.SourceFile) string {
	for _, f := range files {
		var name string
		switch path.Base(f.Path) {
		case "mods.toml", "neoforge.mods.toml":
			var doc modsTOML
			if err := toml.Unmarshal([]byte(f.Content), &doc); err == nil && len(doc.Mods) > 0 {
				name = firstNonEmpty(doc.Mods[0].DisplayName, doc.Mods[0].ModID)
			}
		case "fabric.mod.json", "quilt.mod.json":
			var doc struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			}
			if err := json.Unmarshal([]byte(f.Content), &doc); err == nil {
				name = firstNonEmpty(doc.Name, doc.ID)
			}
		}
		if name = strings.Join(strings.Fields(name), ""); name != "" {
			return name
		}
	}
	return ""
}

func render(t *template.Template, data modTemplateData) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}

// modID lower-cases the name down to the characters loaders accept in ids
func modID(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	id := b.String()
	if id == "" {
		return strings.ToLower(defaultModName)
	}
	if id[0] >= '0' && id[0] <= '9' {
		id = "mod" + id
	}
	return id
}

// className keeps only Java identifier characters
func className(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	cls := b.String()
	if cls == "" {
		return defaultModName
	}
	if unicode.IsDigit([]rune(cls)[0]) {
		cls = "Mod" + cls
	}
	return cls
}

func javaString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
