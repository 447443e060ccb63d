package deepgram

type deepgramVoice string

const (
	VoiceAsteriaEn deepgramVoice = "aura-2-asteria-en"
	VoiceLunaEn    deepgramVoice = "aura-2-luna-en"
	VoiceStellaEn  deepgramVoice = "aura-2-stella-en"
	VoiceAthenaEn  deepgramVoice = "aura-2-athena-en"
	VoiceHeraEn    deepgramVoice = "aura-2-hera-en"
	VoiceOrionEn   deepgramVoice = "aura-2-orion-en"
	VoiceArcasEn   deepgramVoice = "aura-2-arcas-en"
	VoicePerseusEn deepgramVoice = "aura-2-perseus-en"
	VoiceAngusEn   deepgramVoice = "aura-2-angus-en"
	VoiceOrpheusEn deepgramVoice = "aura-2-orpheus-en"
	VoiceHeliosEn  deepgramVoice = "aura-2-helios-en"
	VoiceZeusEn    deepgramVoice = "aura-2-zeus-en"

	defaultVoice = VoiceAsteriaEn
)

func GetAvailableVoices() []deepgramVoice {
	return []deepgramVoice{
		VoiceAsteriaEn,
		VoiceLunaEn,
		VoiceStellaEn,
		VoiceAthenaEn,
		VoiceHeraEn,
		VoiceOrionEn,
		VoiceArcasEn,
		VoicePerseusEn,
		VoiceAngusEn,
		VoiceOrpheusEn,
		VoiceHeliosEn,
		VoiceZeusEn,
	}
}

// ParseVoice accepts a voice model name. An empty name selects the default
// voice.
func ParseVoice(name string) (deepgramVoice, bool) {
	if name == "" {
		return defaultVoice, true
	}
	for _, voice := range GetAvailableVoices() {
		if string(voice) == name {
			return voice, true
		}
	}
	return "", false
}
