package platform

import "strings"

// ValidationResult describes whether a URL is acceptable for transcription.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Platform Platform `json:"platform,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

// Validator checks video URLs before a task is created.
// The orchestrator never consults it; validation is a front-door concern.
type Validator struct{}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Classify validates a video URL and reports the detected platform.
func (v *Validator) Classify(url string) ValidationResult {
	u := strings.ToLower(strings.TrimSpace(url))

	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return ValidationResult{IsValid: false, Reason: "URL must start with http:// or https://"}
	}

	var detected Platform
	for p, frags := range domains {
		for _, frag := range frags {
			if strings.Contains(u, frag) {
				detected = p
				break
			}
		}
		if detected != "" {
			break
		}
	}

	if detected == "" {
		return ValidationResult{
			IsValid: false,
			Reason:  "unsupported platform; supported: YouTube, Instagram, VKontakte, TikTok",
		}
	}

	if !validPath(detected, u) {
		return ValidationResult{
			IsValid:  false,
			Platform: detected,
			Reason:   "URL does not look like a " + string(detected) + " video link",
		}
	}

	return ValidationResult{IsValid: true, Platform: detected}
}

// validPath applies the per-platform shape checks for a video link.
func validPath(p Platform, url string) bool {
	switch p {
	case YouTube:
		return strings.Contains(url, "watch?v=") ||
			strings.Contains(url, "youtu.be/") ||
			strings.Contains(url, "embed/") ||
			strings.Contains(url, "shorts/")
	case Instagram:
		return strings.Contains(url, "/p/") ||
			strings.Contains(url, "/reel/") ||
			strings.Contains(url, "/tv/") ||
			strings.Contains(url, "/stories/")
	case VKontakte:
		return strings.Contains(url, "video") &&
			(strings.Contains(url, "video-") || strings.Contains(url, "video_ext.php"))
	case TikTok:
		return strings.Contains(url, "/video/") || strings.Contains(url, "@")
	default:
		return false
	}
}
