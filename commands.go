package main

import (
	"errors"
	"fmt"
	"strings"

	"adcraft/agent"
	"adcraft/catalogue"
	"adcraft/config"
	"adcraft/storage"
	"adcraft/tools"

	"github.com/google/uuid"
)

type InitCmd struct {
	Force bool `long:"force" description:"overwrite an existing settings file"`
}

func (c *InitCmd) Execute(_ []string) error {
	path := opts.Config
	if path == "" {
		path = config.GetSettingsFilePath()
	}
	path = config.ExpandPath(path)
	if config.FileExists(path) && !c.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.CreateDefaultConfig(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

type RunCmd struct {
	AdID          string `long:"ad" description:"ad id (generated when empty)"`
	SessionID     string `long:"session" description:"session that owns the ad"`
	Provider      string `short:"p" long:"provider" description:"provider id (default from settings)"`
	Effort        string `long:"effort" choice:"minimal" choice:"low" choice:"medium" choice:"high" description:"reasoning effort"`
	MaxIterations int    `long:"max-iterations" description:"loop pass limit"`
	ToolSet       string `long:"tool-set" choice:"full" choice:"generation" default:"full" description:"tools offered to the model"`
	VoiceLanguage string `long:"prefetch-voices" description:"search voices for this language up front and omit search_voices"`
	Args          struct {
		Brief []string `positional-arg-name:"brief" required:"1"`
	} `positional-args:"yes"`
}

func (c *RunCmd) Execute(_ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	prompt, err := a.systemPrompt()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	runOpts := agent.Options{
		AdID:            c.AdID,
		SessionID:       c.SessionID,
		Provider:        c.Provider,
		ReasoningEffort: c.Effort,
		MaxIterations:   c.MaxIterations,
		ToolSet:         tools.ToolSet(c.ToolSet),
	}
	if runOpts.AdID == "" {
		runOpts.AdID = uuid.New().String()
	}

	if c.VoiceLanguage != "" {
		if a.catalogue == nil {
			return errors.New("--prefetch-voices needs a configured voice catalogue")
		}
		voices, err := a.catalogue.Search(ctx, catalogue.Query{Language: c.VoiceLanguage})
		if err != nil {
			return err
		}
		runOpts.PrefetchedVoices = voices
	}

	res, err := a.agent().Run(ctx, prompt, strings.Join(c.Args.Brief, " "), runOpts)
	if err != nil {
		return err
	}
	return printJSON(res)
}

type ContinueCmd struct {
	AdID     string `long:"ad" required:"true" description:"ad id"`
	Provider string `short:"p" long:"provider" description:"provider id (default from settings)"`
	Args     struct {
		Message []string `positional-arg-name:"message" required:"1"`
	} `positional-args:"yes"`
}

func (c *ContinueCmd) Execute(_ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()

	res, err := a.agent().ContinueConversation(ctx, c.AdID, strings.Join(c.Args.Message, " "), c.Provider)
	if errors.Is(err, agent.ErrNoConversation) {
		return fmt.Errorf("%w; start one with 'adcraft run --ad %s'", err, c.AdID)
	}
	if err != nil {
		return err
	}
	return printJSON(res)
}

type VersionsCmd struct {
	List     VersionsListCmd   `command:"list" description:"Show the ad state or the versions of one stream"`
	Activate VersionActionCmd  `command:"activate" description:"Make a version the active one"`
	Clone    VersionActionCmd  `command:"clone" description:"Fork a version into a new draft"`
	Delete   VersionActionCmd  `command:"delete" description:"Delete a version that is not active"`
	Sessions SessionAdsListCmd `command:"session" description:"List the ads created in a session"`
}

type VersionsListCmd struct {
	AdID   string `long:"ad" required:"true" description:"ad id"`
	Stream string `long:"stream" choice:"voices" choice:"music" choice:"sfx" description:"stream; all streams when empty"`
}

func (c *VersionsListCmd) Execute(_ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()

	if c.Stream == "" {
		state, err := tools.ReadState(ctx, a.store, c.AdID)
		if err != nil {
			return err
		}
		return printJSON(state)
	}

	versions, err := a.store.Versions.GetAllVersionsWithData(ctx, c.AdID, storage.Stream(c.Stream))
	if err != nil {
		return err
	}
	return printJSON(versions)
}

// VersionActionCmd is shared by activate, clone and delete; the parser
// hands each its own instance, so the action is picked by pointer.
type VersionActionCmd struct {
	AdID    string `long:"ad" required:"true" description:"ad id"`
	Stream  string `long:"stream" required:"true" choice:"voices" choice:"music" choice:"sfx" description:"stream"`
	Version string `long:"version" required:"true" description:"version id, e.g. v2"`
}

func (c *VersionActionCmd) Execute(_ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()

	stream, err := storage.ParseStream(c.Stream)
	if err != nil {
		return err
	}
	versions := a.store.Versions

	switch c {
	case &opts.Versions.Activate:
		if err := versions.SetActiveVersion(ctx, c.AdID, stream, c.Version); err != nil {
			return err
		}
		fmt.Printf("%s %s is now active\n", stream, c.Version)
	case &opts.Versions.Clone:
		id, err := versions.CloneVersion(ctx, c.AdID, stream, c.Version)
		if err != nil {
			return err
		}
		fmt.Printf("Cloned %s %s into draft %s\n", stream, c.Version, id)
	case &opts.Versions.Delete:
		if err := versions.DeleteVersion(ctx, c.AdID, stream, c.Version); err != nil {
			return err
		}
		fmt.Printf("Deleted %s %s\n", stream, c.Version)
	default:
		return fmt.Errorf("unknown version action")
	}
	return nil
}

type SessionAdsListCmd struct {
	SessionID string `long:"session" required:"true" description:"session id"`
}

func (c *SessionAdsListCmd) Execute(_ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()

	ids, err := a.store.Ads.ListAdsForSession(ctx, c.SessionID)
	if err != nil {
		return err
	}
	ads := make([]*storage.AdMetadata, 0, len(ids))
	for _, id := range ids {
		meta, err := a.store.Ads.GetAd(ctx, id)
		if err != nil {
			return err
		}
		if meta != nil {
			ads = append(ads, meta)
		}
	}
	return printJSON(ads)
}
