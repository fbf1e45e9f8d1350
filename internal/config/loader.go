package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadBattle loads the battle configuration.
// Search order: customPath -> ~/.lexibolt/configs/battle.yaml -> ./configs/battle.yaml -> embedded default
func LoadBattle(customPath string) (BattleConfig, error) {
	var cfg BattleConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("battle.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/battle.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultBattleYAML, &cfg); err != nil {
		return DefaultBattleConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// LoadQuiz loads the quiz configuration.
// Search order: customPath -> ~/.lexibolt/configs/quiz.yaml -> ./configs/quiz.yaml -> embedded default
func LoadQuiz(customPath string) (QuizConfig, error) {
	var cfg QuizConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("quiz.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/quiz.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultQuizYAML, &cfg); err != nil {
		return DefaultQuizConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// LoadReading loads the reading configuration.
// Search order: customPath -> ~/.lexibolt/configs/reading.yaml -> ./configs/reading.yaml -> embedded default
func LoadReading(customPath string) (ReadingConfig, error) {
	var cfg ReadingConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("reading.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/reading.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultReadingYAML, &cfg); err != nil {
		return DefaultReadingConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lexibolt", "configs", filename)
}

// ApplyBattlePreset modifies the config based on a difficulty preset.
func ApplyBattlePreset(cfg *BattleConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust the enemy based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Enemy.CounterDelayMs += 200
	case DifficultyHard:
		cfg.Enemy.CounterDelayMs -= 200
		for i := range cfg.Enemy.Pools {
			cfg.Enemy.Pools[i].Charges++
		}
	}
}

// ApplyQuizPreset modifies the config based on a difficulty preset.
func ApplyQuizPreset(cfg *QuizConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.QuestionSeconds = 0
	case DifficultyHard:
		if cfg.QuestionSeconds == 0 || cfg.QuestionSeconds > 10 {
			cfg.QuestionSeconds = 10
		}
	}
}

// ApplyReadingPreset modifies the config based on a difficulty preset.
func ApplyReadingPreset(cfg *ReadingConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.DwellTicks = 30
		cfg.TimeLimitSeconds += 30
	case DifficultyHard:
		cfg.DwellTicks = 60
		cfg.TimeLimitSeconds -= 15
	}
}
