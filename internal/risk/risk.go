package risk

import (
	"github.com/Gowtham-1301/cardiopulse/internal/ecg"
)

// Level is a coarse risk band derived from the fused score
type Level string

const (
	LevelLow      Level = "low"
	LevelModerate Level = "moderate"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// ClinicalProfile holds the static patient attributes used for scoring
type ClinicalProfile struct {
	Age           int     `json:"age"`
	BMI           float64 `json:"bmi"`
	Smoker        bool    `json:"smoker"`
	Diabetic      bool    `json:"diabetic"`
	Hypertension  bool    `json:"hypertension"`
	FamilyHistory bool    `json:"family_history"`
}

// Assessment is the result of fusing ECG-derived metrics with a clinical
// profile into a 0-100 risk score
type Assessment struct {
	FinalRiskLevel    Level    `json:"finalRiskLevel"`
	ECGRiskScore      float64  `json:"ecgRiskScore"`
	ClinicalRiskScore float64  `json:"clinicalRiskScore"`
	FusedRiskScore    float64  `json:"fusedRiskScore"`
	RiskFactors       []string `json:"riskFactors"`
	ProtectiveFactors []string `json:"protectiveFactors"`
	Confidence        float64  `json:"confidence"`
	Recommendations   []string `json:"recommendations"`
}

// ECG and clinical contributions to the fused score
const (
	ecgWeight      = 0.6
	clinicalWeight = 0.4
)

// Evaluate scores a detection result against a clinical profile. The ECG
// side looks at rate, variability and rhythm regularity; the clinical side
// is a static point system. Confidence reflects how much RR data backed the
// ECG score.
func Evaluate(result ecg.Result, profile ClinicalProfile) Assessment {
	a := Assessment{
		RiskFactors:       []string{},
		ProtectiveFactors: []string{},
	}

	a.ECGRiskScore = scoreECG(result, &a)
	a.ClinicalRiskScore = scoreClinical(profile, &a)
	a.FusedRiskScore = clamp(ecgWeight*a.ECGRiskScore + clinicalWeight*a.ClinicalRiskScore)
	a.Confidence = confidence(result)
	a.FinalRiskLevel = levelFor(a.FusedRiskScore)
	a.Recommendations = recommendations(a.FinalRiskLevel, a.Confidence)

	return a
}

func scoreECG(result ecg.Result, a *Assessment) float64 {
	score := 0.0

	switch {
	case result.AvgHR == 0:
		// Detector has no metrics yet; score nothing and let the low
		// confidence carry the message.
	case result.AvgHR < 40:
		score += 40
		a.RiskFactors = append(a.RiskFactors, "severe bradycardia (avg HR < 40 BPM)")
	case result.AvgHR < 50:
		score += 25
		a.RiskFactors = append(a.RiskFactors, "bradycardia (avg HR < 50 BPM)")
	case result.AvgHR > 120:
		score += 40
		a.RiskFactors = append(a.RiskFactors, "severe tachycardia (avg HR > 120 BPM)")
	case result.AvgHR > 100:
		score += 25
		a.RiskFactors = append(a.RiskFactors, "tachycardia (avg HR > 100 BPM)")
	default:
		a.ProtectiveFactors = append(a.ProtectiveFactors, "heart rate in normal range")
	}

	if len(result.RRIntervals) >= 2 {
		sdnn := ecg.SDNN(result.RRIntervals)
		switch {
		case sdnn < 20:
			score += 20
			a.RiskFactors = append(a.RiskFactors, "severely reduced heart-rate variability (SDNN < 20 ms)")
		case sdnn < 50:
			score += 10
			a.RiskFactors = append(a.RiskFactors, "reduced heart-rate variability (SDNN < 50 ms)")
		default:
			a.ProtectiveFactors = append(a.ProtectiveFactors, "normal heart-rate variability")
		}

		if ratio := rrSpread(result.RRIntervals); ratio > 1.5 {
			score += 15
			a.RiskFactors = append(a.RiskFactors, "irregular rhythm (RR spread > 1.5x)")
		}
	}

	return clamp(score)
}

func scoreClinical(p ClinicalProfile, a *Assessment) float64 {
	score := 0.0

	switch {
	case p.Age > 65:
		score += 20
		a.RiskFactors = append(a.RiskFactors, "age over 65")
	case p.Age > 45:
		score += 10
		a.RiskFactors = append(a.RiskFactors, "age over 45")
	}

	if p.Smoker {
		score += 20
		a.RiskFactors = append(a.RiskFactors, "smoker")
	} else {
		a.ProtectiveFactors = append(a.ProtectiveFactors, "non-smoker")
	}
	if p.Diabetic {
		score += 15
		a.RiskFactors = append(a.RiskFactors, "diabetes")
	}
	if p.Hypertension {
		score += 15
		a.RiskFactors = append(a.RiskFactors, "hypertension")
	}
	if p.FamilyHistory {
		score += 10
		a.RiskFactors = append(a.RiskFactors, "family history of cardiac disease")
	}

	switch {
	case p.BMI >= 30:
		score += 10
		a.RiskFactors = append(a.RiskFactors, "obesity (BMI >= 30)")
	case p.BMI > 0 && p.BMI < 18.5:
		score += 5
		a.RiskFactors = append(a.RiskFactors, "underweight (BMI < 18.5)")
	}

	return clamp(score)
}

// rrSpread returns max/min over the RR intervals
func rrSpread(rr []float64) float64 {
	min, max := rr[0], rr[0]
	for _, v := range rr[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min <= 0 {
		return 0
	}
	return max / min
}

func confidence(result ecg.Result) float64 {
	switch {
	case len(result.Peaks) == 0:
		return 0.2
	case len(result.RRIntervals) < 2:
		return 0.3
	case len(result.RRIntervals) < 10:
		return 0.6
	default:
		return 0.9
	}
}

func levelFor(score float64) Level {
	switch {
	case score < 25:
		return LevelLow
	case score < 50:
		return LevelModerate
	case score < 75:
		return LevelHigh
	default:
		return LevelCritical
	}
}

func recommendations(level Level, conf float64) []string {
	recs := []string{}
	if conf < 0.5 {
		recs = append(recs, "record a longer ECG segment for a reliable assessment")
	}
	switch level {
	case LevelLow:
		recs = append(recs, "no action needed; continue routine monitoring")
	case LevelModerate:
		recs = append(recs, "repeat monitoring within 24 hours", "review modifiable risk factors")
	case LevelHigh:
		recs = append(recs, "schedule a clinical review", "consider continuous monitoring")
	case LevelCritical:
		recs = append(recs, "seek immediate clinical attention")
	}
	return recs
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
