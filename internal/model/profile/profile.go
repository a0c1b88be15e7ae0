package profile

// Profile holds a user's identity and medical details. The session engine
// only reads the identifier and language preference; the remaining fields are
// edited by the account views.
type Profile struct {
	UID              string `json:"uid"`
	DisplayName      string `json:"displayName"`
	Email            string `json:"email"`
	Mobile           string `json:"mobile"`
	EmergencyContact string `json:"emergencyContact"`
	BloodGroup       string `json:"bloodGroup"`
	HealthIssues     string `json:"healthIssues"`
	Language         string `json:"language,omitempty"`
}

// Update carries a partial set of profile fields. Nil pointers leave the
// stored value untouched.
type Update struct {
	DisplayName      *string `json:"displayName,omitempty"`
	Email            *string `json:"email,omitempty"`
	Mobile           *string `json:"mobile,omitempty"`
	EmergencyContact *string `json:"emergencyContact,omitempty"`
	BloodGroup       *string `json:"bloodGroup,omitempty"`
	HealthIssues     *string `json:"healthIssues,omitempty"`
	Language         *string `json:"language,omitempty"`
}

// Apply merges the populated fields of u into p.
func (u Update) Apply(p *Profile) {
	if u.DisplayName != nil {
		p.DisplayName = *u.DisplayName
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Mobile != nil {
		p.Mobile = *u.Mobile
	}
	if u.EmergencyContact != nil {
		p.EmergencyContact = *u.EmergencyContact
	}
	if u.BloodGroup != nil {
		p.BloodGroup = *u.BloodGroup
	}
	if u.HealthIssues != nil {
		p.HealthIssues = *u.HealthIssues
	}
	if u.Language != nil {
		p.Language = *u.Language
	}
}

// Empty reports whether the update carries no fields.
func (u Update) Empty() bool {
	return u.DisplayName == nil && u.Email == nil && u.Mobile == nil &&
		u.EmergencyContact == nil && u.BloodGroup == nil &&
		u.HealthIssues == nil && u.Language == nil
}
