package recommendation

import "fmt"

const (
	strongAdviceThreshold   = 80
	moderateAdviceThreshold = 60
)

type courseKey struct {
	track Track
	level Level
}

type description struct {
	focus string
	style string
}

var descriptions = map[courseKey]description{
	{TrackAA, LevelHL}: {
		focus: "Strong emphasis on pure mathematics, proofs, and abstract thinking. This course is ideal for future mathematicians, physicists, or engineers who need a deep theoretical understanding.",
		style: "Your responses indicate strong analytical skills and enjoyment in discovering mathematical patterns and proofs. You tend to appreciate the theoretical foundations of mathematics.",
	},
	{TrackAA, LevelSL}: {
		focus: "Balance of theoretical mathematics with practical applications. Provides a good foundation for STEM fields while maintaining a manageable workload.",
		style: "You show an appreciation for mathematical structure but prefer a more guided approach to learning. This suggests AA SL would provide the right balance of theory and practice.",
	},
	{TrackAI, LevelHL}: {
		focus: "Deep dive into real-world applications, modelling, and data analysis. Perfect for future economists, business analysts, or social scientists who need strong applied mathematics skills.",
		style: "You excel at connecting mathematics to real-world scenarios and enjoy working with data. Your strength lies in applying mathematical concepts to practical situations.",
	},
	{TrackAI, LevelSL}: {
		focus: "Practical approach to mathematics focusing on modelling and technology. Suitable for students needing mathematical literacy in non-STEM fields.",
		style: "You learn best when mathematics is presented in practical, concrete contexts. AI SL would provide you with useful mathematical tools while maintaining a manageable level of abstraction.",
	},
}

const generalAdvice = "Your responses show mixed preferences or are still developing. We strongly recommend that you talk to your maths teacher and/or careers advisor to discuss your options in detail. Consider factors such as:\n\n" +
	"• Your university and career plans.\n" +
	"• Your comfort with abstract vs. applied mathematics.\n" +
	"• The amount of time you are willing to dedicate to studying mathematics."

func describe(track Track, level Level) (focus, style string) {
	d := descriptions[courseKey{track, level}]
	return d.focus, d.style
}

func advise(confidence int, track Track, level Level, trackConfidence, levelConfidence int) string {
	switch {
	case confidence >= strongAdviceThreshold:
		return fmt.Sprintf("Your responses strongly indicate that %s %s aligns well with your interests and abilities. The high overall confidence (%d%%) suggests this would be an excellent choice.",
			track, level, confidence)
	case confidence >= moderateAdviceThreshold:
		advice := fmt.Sprintf("%s %s appears to be a good fit, but consider discussing this choice with your teachers.", track, level)
		// Equal axis confidence names the track.
		if trackConfidence >= levelConfidence {
			return advice + fmt.Sprintf(" You show a clearer preference for %s (confidence of %d%%), but it would be good to discuss whether %s is the right level for you.",
				track, trackConfidence, level)
		}
		return advice + fmt.Sprintf(" You show a clearer preference for the %s level (confidence of %d%%), but it would be good to explore both AA and AI options.",
			level, levelConfidence)
	default:
		return generalAdvice
	}
}
