package stats

// Level 为热力图格子的强度档位。
type Level int

const (
	Empty Level = iota
	Tier1
	Tier2
	Tier3
	Tier4
)

// Intensity 将当日提交数映射到强度档位：0 / 1 / 2-3 / 4-5 / >=6。
func Intensity(count int) Level {
	switch {
	case count <= 0:
		return Empty
	case count < 2:
		return Tier1
	case count < 4:
		return Tier2
	case count < 6:
		return Tier3
	default:
		return Tier4
	}
}

func (l Level) String() string {
	switch l {
	case Tier1:
		return "tier1"
	case Tier2:
		return "tier2"
	case Tier3:
		return "tier3"
	case Tier4:
		return "tier4"
	default:
		return "empty"
	}
}

// Class 返回热力图使用的 CSS 类名。
func (l Level) Class() string {
	switch l {
	case Tier1:
		return "color-scale-1"
	case Tier2:
		return "color-scale-2"
	case Tier3:
		return "color-scale-3"
	case Tier4:
		return "color-scale-4"
	default:
		return "color-empty"
	}
}
