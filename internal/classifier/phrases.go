package classifier

// applicationPhrases mark an email as part of a job application exchange.
var applicationPhrases = []string{
	"thank you for applying",
	"application received",
	"we have received your application",
	"your application for",
	"application confirmation",
	"thank you for your interest",
	"we received your application",
	"application submitted successfully",
	"your resume has been received",
	"thank you for submitting",
	"working student",
	"werkstudent",
	// German
	"vielen dank für ihre bewerbung",
	"herzlichen dank für ihre bewerbung",
	"wir werden uns schnellstmöglich wieder mit ihnen kontakt aufnehmen",
	"wir werden uns so schnell wie möglich bei ihnen melden",
	"ihre bewerbung für die position",
	"bewerbung eingegangen",
}

var rejectionPhrases = []string{
	"unfortunately",
	"we regret to inform",
	"not selected",
	"decided to move forward with other candidates",
	"will not be moving forward",
	"thank you for your interest, however",
	"we have decided not to proceed",
	"position has been filled",
	// German
	"leider mitteilen",
	"andere kandidat",
	"nicht weiter berücksichtigen",
	"absage",
	"unser feedback",
}

var interviewPhrases = []string{
	"interview",
	"would like to schedule",
	"next step in the process",
	"phone screen",
	"video call",
	"meet with our team",
	"discuss your application further",
}
