package herorecog

import (
	"fmt"
	"strings"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/analyzer"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/pkg/maafocus"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/tracker"
	"github.com/MaaXYZ/maa-framework-go/v4"
	"github.com/bytedance/sonic"
)

var (
	_ maa.CustomRecognitionRunner = &HeroLevelTrackRecognition{}
	_ maa.CustomRecognitionRunner = &CooldownReadRecognition{}
	_ maa.CustomRecognitionRunner = &MoneyReadRecognition{}
)

// heroFocus shows the hero summary whenever an id or level changes.
var heroFocus = maafocus.NewChanges()

func emptyResult(arg *maa.CustomRecognitionArg) *maa.CustomRecognitionResult {
	return &maa.CustomRecognitionResult{Box: arg.Roi, Detail: `{}`}
}

// HeroLevelTrackRecognition reads the hero level icons of the current screenshot and feeds
// them to the shared tracker. Hit when at least one hero is visible.
//
// Detail: {"heroes":[{"id":0,"position":{"x":411,"y":200},"level":12}]}
type HeroLevelTrackRecognition struct{}

type heroTrackResult struct {
	Heroes []tracker.HeroStatus `json:"heroes"`
}

// Run implements CustomRecognitionRunner.
func (r *HeroLevelTrackRecognition) Run(ctx *maa.Context, arg *maa.CustomRecognitionArg) (*maa.CustomRecognitionResult, bool) {
	if arg.Img == nil {
		recoLog.Error().Msg("prepared image is nil")
		return emptyResult(arg), false
	}
	sess, err := shared.ensureReady()
	if err != nil {
		recoLog.Error().Err(err).Msg("hero recognition unavailable")
		return emptyResult(arg), false
	}

	heroes := sess.TrackHeroes(shared.now(), arg.Img)
	data, err := sonic.Marshal(heroTrackResult{Heroes: heroes})
	if err != nil {
		recoLog.Error().Err(err).Msg("failed to marshal heroes")
		return emptyResult(arg), false
	}
	recoLog.Info().Int("visible", len(heroes)).Int("tracked", len(sess.Heroes())).Msg("hero levels tracked")

	if len(heroes) > 0 {
		if _, err := heroFocus.Post(ctx, heroSummary(heroes)); err != nil {
			recoLog.Warn().Err(err).Msg("failed to post hero focus")
		}
	}
	return &maa.CustomRecognitionResult{Box: arg.Roi, Detail: string(data)}, len(heroes) > 0
}

func heroSummary(heroes []tracker.HeroStatus) string {
	parts := make([]string, 0, len(heroes))
	for _, h := range heroes {
		parts = append(parts, fmt.Sprintf("#%d Lv.%d", h.ID, h.Level))
	}
	return "Heroes: " + strings.Join(parts, ", ")
}

// CooldownReadRecognition reads one ability cooldown. Hit when the ability is cooling down.
//
// Param: {"kind": "spell" | "skill", "slot": 0}
// Detail: {"kind":"spell","slot":0,"value":12}
type CooldownReadRecognition struct{}

type cooldownParam struct {
	Kind string `json:"kind"`
	Slot int    `json:"slot"`
}

type cooldownResult struct {
	Kind  string `json:"kind"`
	Slot  int    `json:"slot"`
	Value int    `json:"value"`
}

func (p cooldownParam) validate() error {
	switch p.Kind {
	case "spell":
		if p.Slot < 0 || p.Slot >= len(analyzer.SPELL_CENTERS) {
			return fmt.Errorf("spell slot %d out of range", p.Slot)
		}
	case "skill":
		if p.Slot < 0 || p.Slot >= len(analyzer.SKILL_CENTERS) {
			return fmt.Errorf("skill slot %d out of range", p.Slot)
		}
	default:
		return fmt.Errorf("unknown cooldown kind %q", p.Kind)
	}
	return nil
}

// Run implements CustomRecognitionRunner.
func (r *CooldownReadRecognition) Run(ctx *maa.Context, arg *maa.CustomRecognitionArg) (*maa.CustomRecognitionResult, bool) {
	var param cooldownParam
	if err := sonic.UnmarshalString(arg.CustomRecognitionParam, &param); err != nil {
		recoLog.Error().Err(err).Str("param", arg.CustomRecognitionParam).Msg("failed to parse cooldown param")
		return emptyResult(arg), false
	}
	if err := param.validate(); err != nil {
		recoLog.Error().Err(err).Msg("invalid cooldown param")
		return emptyResult(arg), false
	}
	if arg.Img == nil {
		recoLog.Error().Msg("prepared image is nil")
		return emptyResult(arg), false
	}
	sess, err := shared.ensureReady()
	if err != nil {
		recoLog.Error().Err(err).Msg("cooldown recognition unavailable")
		return emptyResult(arg), false
	}

	img := analyzer.Normalize(arg.Img)
	var value int
	if param.Kind == "spell" {
		value = sess.Analyzer().ReadSpell(img, param.Slot)
	} else {
		value = sess.Analyzer().ReadSkill(img, param.Slot)
	}
	data, _ := sonic.Marshal(cooldownResult{Kind: param.Kind, Slot: param.Slot, Value: value})
	recoLog.Debug().Str("kind", param.Kind).Int("slot", param.Slot).Int("value", value).Msg("cooldown read")
	return &maa.CustomRecognitionResult{Box: arg.Roi, Detail: string(data)}, value > 0
}

// MoneyReadRecognition reads the money counter. Hit when a value was read.
//
// Detail: {"money":350}
type MoneyReadRecognition struct{}

// Run implements CustomRecognitionRunner.
func (r *MoneyReadRecognition) Run(ctx *maa.Context, arg *maa.CustomRecognitionArg) (*maa.CustomRecognitionResult, bool) {
	if arg.Img == nil {
		recoLog.Error().Msg("prepared image is nil")
		return emptyResult(arg), false
	}
	sess, err := shared.ensureReady()
	if err != nil {
		recoLog.Error().Err(err).Msg("money recognition unavailable")
		return emptyResult(arg), false
	}
	money := sess.Analyzer().ReadMoney(analyzer.Normalize(arg.Img))
	data, _ := sonic.Marshal(map[string]int{"money": money})
	return &maa.CustomRecognitionResult{Box: arg.Roi, Detail: string(data)}, money > 0
}
