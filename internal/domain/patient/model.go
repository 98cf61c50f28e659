package patient

// Patient is the full clinical document as stored. The service interprets
// only the fields below; everything else (labs, conditions, demographics)
// is carried through untouched so the document round-trips exactly.
//
// Interpreted fields:
//
//	id              string, externally assigned logical primary key
//	doctorId        string, owning doctor's user id
//	medical_history append-only list of {date, event}
//	care_plan       {prescriptions: [string], pending_tests: [string]}
//
// Derived fields (riskScore, ai_summary, ai_insights) are attached to the
// in-memory copy at read time and never persisted.
type Patient map[string]interface{}

func (p Patient) ID() string {
	v, _ := p["id"].(string)
	return v
}

func (p Patient) DoctorID() string {
	v, _ := p["doctorId"].(string)
	return v
}

// History returns the raw medical_history list, never nil.
func (p Patient) History() []interface{} {
	v, _ := p["medical_history"].([]interface{})
	if v == nil {
		return []interface{}{}
	}
	return v
}

// CarePlan item types accepted by AppendCarePlanItem.
const (
	ItemPrescription = "prescription"
	ItemTest         = "test"
)

// care_plan document field names.
const (
	carePlanField     = "care_plan"
	prescriptionsList = "prescriptions"
	pendingTestsList  = "pending_tests"
)
