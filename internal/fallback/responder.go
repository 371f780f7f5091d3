// Package fallback provides rule-based medical responses used when the
// model backend is unavailable. Responses are educational content keyed on
// topic keywords; they are not generated and carry no model state.
package fallback

import "strings"

// rule maps topic keywords to a canned response. The first rule with any
// keyword found in the message wins, so order matters: more urgent topics
// (chest pain) sit above general ones (wellness).
type rule struct {
	keywords []string
	response string
}

// Responder answers health questions from a fixed topic table.
type Responder struct {
	rules []rule
}

// NewResponder creates a Responder with the built-in topic table.
func NewResponder() *Responder {
	return &Responder{rules: defaultRules}
}

// Respond returns the canned response for the first topic matched in the
// message, or the default guidance when no topic matches. Matching is
// case-insensitive substring search.
func (r *Responder) Respond(message string) string {
	if strings.TrimSpace(message) == "" {
		return "Please ask me a health-related question and I'll do my best to help!"
	}

	lower := strings.ToLower(message)
	for _, rule := range r.rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.response
			}
		}
	}

	return defaultResponse
}

var defaultRules = []rule{
	{
		keywords: []string{"chest pain", "heart", "cardiac"},
		response: `⚠️ **IMPORTANT: Chest pain can be serious**

**Seek immediate emergency care (call 911) if experiencing:**
- Severe, crushing chest pain
- Pain radiating to arm, jaw, or back
- Shortness of breath
- Sweating, nausea, dizziness

**Other chest pain causes may include:**
- Muscle strain
- Heartburn/GERD
- Anxiety
- Respiratory issues

**Never ignore chest pain** - when in doubt, seek immediate medical evaluation.`,
	},
	{
		keywords: []string{"fever", "temperature", "chills"},
		response: `For fever management:

• **Rest** in a comfortable environment
• **Stay hydrated** with water, clear broths, or electrolyte drinks
• **Fever reducers**: Consider acetaminophen or ibuprofen as directed on packaging
• **Cool measures**: Light clothing, cool compresses, tepid baths
• **Monitor**: Keep track of temperature changes

**Seek immediate medical attention if:**
- Fever exceeds 103°F (39.4°C)
- Fever persists more than 3 days
- Accompanied by severe symptoms like difficulty breathing or severe headache
- Signs of dehydration appear`,
	},
	{
		keywords: []string{"headache", "head pain", "migraine"},
		response: `For headache relief:

• **Rest** in a quiet, dark room
• **Hydration**: Drink plenty of water (dehydration is a common cause)
• **Cold/heat therapy**: Apply cold compress to forehead or warm compress to neck
• **Pain relievers**: Over-the-counter medications like acetaminophen or ibuprofen
• **Relaxation**: Try gentle neck stretches, meditation, or deep breathing

**Seek immediate medical care for:**
- Sudden, severe headache unlike any before
- Headache with fever, stiff neck, vision changes
- Headache after head injury
- Progressive worsening over days/weeks`,
	},
	{
		keywords: []string{"diabetes", "blood sugar", "insulin"},
		response: `Diabetes overview:

**Common symptoms:**
- Frequent urination and excessive thirst
- Unexplained weight loss or gain
- Extreme fatigue and weakness
- Blurred vision
- Slow-healing wounds

**Management strategies:**
- **Diet**: Focus on balanced meals, limit processed sugars
- **Exercise**: Regular physical activity helps control blood sugar
- **Monitoring**: Check blood glucose as recommended
- **Medications**: Take prescribed medications consistently
- **Regular check-ups**: Monitor A1C, blood pressure, cholesterol`,
	},
	{
		keywords: []string{"blood pressure", "hypertension"},
		response: `Blood pressure information:

**Understanding readings:**
- Normal: Less than 120/80 mmHg
- Elevated: 120-129 systolic, less than 80 diastolic
- High (Stage 1): 130-139/80-89 mmHg
- High (Stage 2): 140/90 mmHg or higher

**Management approaches:**
- **Diet**: Reduce sodium, increase potassium-rich foods
- **Exercise**: At least 150 minutes moderate activity weekly
- **Weight management**: Maintain healthy BMI
- **Stress reduction**: Practice relaxation techniques
- **Limit alcohol and avoid tobacco**
- **Medication**: Take as prescribed by healthcare provider`,
	},
	{
		keywords: []string{"cold", "flu", "cough", "sore throat", "runny nose"},
		response: `Cold and flu care:

**Symptom relief:**
- **Rest**: Get plenty of sleep to help your immune system
- **Fluids**: Water, warm teas, broths help with hydration
- **Humidifier**: Moist air can ease congestion
- **Salt water gargle**: For sore throat relief
- **Over-the-counter medications**: Follow package directions

**When to see a doctor:**
- Symptoms worsen after initial improvement
- High fever (over 101.3°F) lasting more than 3 days
- Difficulty breathing or chest pain
- Symptoms lasting more than 10 days`,
	},
	{
		keywords: []string{"anxiety", "depression", "stress", "mental health"},
		response: `Mental health support:

**Managing stress and anxiety:**
- **Deep breathing**: Practice breathing exercises
- **Physical activity**: Regular exercise reduces stress
- **Sleep hygiene**: Maintain a consistent sleep schedule
- **Social support**: Connect with friends, family, or support groups
- **Mindfulness**: Try meditation or mindfulness practices

**When to seek professional help:**
- Persistent sadness or anxiety
- Changes in sleep or appetite
- Difficulty functioning in daily activities
- Thoughts of self-harm

**Crisis resources:**
- National Suicide Prevention Lifeline: 988
- Crisis Text Line: Text HOME to 741741`,
	},
	{
		keywords: []string{"medication", "medicine", "drug", "prescription"},
		response: `Medication safety:

**General guidelines:**
- **Follow prescriptions**: Take exactly as directed by your healthcare provider
- **Don't share**: Never share prescription medications
- **Storage**: Store medications properly (temperature, moisture, light)
- **Expiration**: Don't use expired medications
- **Interactions**: Inform all healthcare providers of all medications you take

**Questions to ask your pharmacist/doctor:**
- How and when to take the medication
- Possible side effects
- Drug interactions
- What to do if you miss a dose`,
	},
	{
		keywords: []string{"allergy", "allergic", "rash", "hives"},
		response: `Allergy management:

**Common allergy symptoms:**
- Sneezing, runny nose, congestion
- Itchy, watery eyes
- Skin reactions (rash, hives, eczema)
- Digestive issues (for food allergies)

**Management strategies:**
- **Avoidance**: Identify and avoid triggers when possible
- **Antihistamines**: Over-the-counter options for mild symptoms
- **Environment**: Use air purifiers, wash bedding frequently
- **Food allergies**: Read labels carefully, carry emergency medications if prescribed

**Seek emergency care for:**
- Severe allergic reaction (anaphylaxis)
- Difficulty breathing or swallowing
- Rapid pulse, dizziness, widespread rash`,
	},
	{
		keywords: []string{"wellness", "healthy", "prevention", "diet", "exercise"},
		response: `General wellness tips:

**Physical health:**
- **Nutrition**: Eat a balanced diet with fruits, vegetables, whole grains
- **Exercise**: Aim for 150 minutes moderate activity weekly
- **Sleep**: 7-9 hours of quality sleep nightly
- **Hydration**: Drink adequate water throughout the day

**Preventive care:**
- **Regular check-ups**: Annual physical exams
- **Screenings**: Age-appropriate health screenings
- **Vaccinations**: Stay current with recommended vaccines
- **Mental health**: Practice stress management and seek support when needed`,
	},
}

var defaultResponse = `I'm here to help with general medical information. While I can provide educational information about various health topics, this should never replace professional medical advice.

**For immediate medical concerns:**
- Call 911 for emergencies
- Contact your healthcare provider
- Visit urgent care or an emergency room if needed

**Some topics I can help with:**
- General information about common conditions
- Wellness and prevention tips
- When to seek medical care
- Basic symptom management

**What specific health topic would you like to know more about?**`
