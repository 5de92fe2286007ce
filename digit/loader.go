package digit

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/pkg/imgproc"
	"github.com/rs/zerolog/log"
)

// 默认样本目录（基于 install 根目录）
const (
	defaultSamplesDir = "resource/samples"
	samplesDirEnv     = "GAMEVIDEO_SAMPLES_DIR"
)

// Prefixes of the three template sets shipped with the samples.
const (
	PrefixCooldown = ""
	PrefixMoney    = "m"
	PrefixLevel    = "l"
)

// Sets groups the three independent template sets of the HUD.
type Sets struct {
	Cooldown *Set
	Money    *Set
	Level    *Set
}

// LoadSets loads the cooldown, money and level sets from dir.
func LoadSets(dir string) (*Sets, error) {
	cooldown, err := LoadSet(dir, PrefixCooldown)
	if err != nil {
		return nil, err
	}
	money, err := LoadSet(dir, PrefixMoney)
	if err != nil {
		return nil, err
	}
	level, err := LoadSet(dir, PrefixLevel)
	if err != nil {
		return nil, err
	}
	return &Sets{Cooldown: cooldown, Money: money, Level: level}, nil
}

// LoadSet reads <prefix>0.bmp ... <prefix>9.bmp from dir.
// A missing .bmp falls back to the .png of the same name.
func LoadSet(dir, prefix string) (*Set, error) {
	bitmaps := make([]*image.Gray, 0, Count)
	for i := 0; i < Count; i++ {
		path := filepath.Join(dir, prefix+strconv.Itoa(i)+".bmp")
		if !fileExists(path) {
			path = filepath.Join(dir, prefix+strconv.Itoa(i)+".png")
		}
		log.Debug().Str("path", path).Msg("loading digit sample")
		bm, err := imgproc.LoadBinary(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load digit sample %d of set %q: %w", i, prefix, err)
		}
		bitmaps = append(bitmaps, bm)
	}
	return NewSet(prefix, bitmaps)
}

// ResolveSamplesDir prefers GAMEVIDEO_SAMPLES_DIR, then walks up from the executable,
// and falls back to the working directory.
// ResolveSamplesDir 优先环境变量，其次从可执行文件向上查找，最后回退到工作目录。
func ResolveSamplesDir() (string, error) {
	if base := os.Getenv(samplesDirEnv); base != "" {
		if hasSamples(base) {
			return base, nil
		}
		log.Warn().Str("dir", base).Msg("samples dir from env has no digit samples")
	}

	if exe, err := os.Executable(); err == nil && exe != "" {
		exeDir := filepath.Dir(exe)
		for i := 0; i < 4; i++ {
			candidate := filepath.Join(exeDir, defaultSamplesDir)
			if hasSamples(candidate) {
				return candidate, nil
			}
			parent := filepath.Dir(exeDir)
			if parent == exeDir {
				break
			}
			exeDir = parent
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	installPath := filepath.Join(cwd, defaultSamplesDir)
	if hasSamples(installPath) {
		return installPath, nil
	}
	samplesPath := filepath.Join(cwd, "samples")
	if hasSamples(samplesPath) {
		return samplesPath, nil
	}
	return installPath, nil
}

// hasSamples reports whether dir holds the first cooldown sample in either format.
func hasSamples(dir string) bool {
	return fileExists(filepath.Join(dir, "0.bmp")) || fileExists(filepath.Join(dir, "0.png"))
}

// fileExists checks if a regular file exists at path.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
