package schedule

import "testing"

func TestNewPatientKey(t *testing.T) {
	cases := []struct {
		in   string
		want PatientKey
	}{
		{"Asha", "asha"},
		{"  Asha  ", "asha"},
		{"RAVI KUMAR", "ravi kumar"},
		{"", ""},
		{"   ", ""},
	}

	for _, c := range cases {
		if got := NewPatientKey(c.in); got != c.want {
			t.Errorf("NewPatientKey(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseFrequency(t *testing.T) {
	for _, raw := range []string{"Daily", "daily", " DAILY "} {
		f, ok := ParseFrequency(raw)
		if !ok || f != FrequencyDaily {
			t.Errorf("ParseFrequency(%q) = %q, %v; want Daily, true", raw, f, ok)
		}
	}

	if _, ok := ParseFrequency("fortnightly"); ok {
		t.Errorf("ParseFrequency accepted unknown tag")
	}
}

func TestMedicationSameSchedule(t *testing.T) {
	daily := Medication{
		Name:           "Metformin",
		NormalizedName: "metformin",
		Frequency:      FrequencyDaily,
		Times:          []string{"08:00", "20:00"},
	}
	weekly := Medication{
		Name:           "Alendronate",
		NormalizedName: "alendronate",
		Frequency:      FrequencyWeekly,
		Times:          []string{"09:00"},
		Day:            "Monday",
	}
	once := Medication{
		Name:           "Paracetamol",
		NormalizedName: "paracetamol",
		Frequency:      FrequencyOnce,
		DateTime:       "2025-06-01 09:00",
	}

	cases := []struct {
		name string
		a, b Medication
		want bool
	}{
		{"identical daily", daily, daily, true},
		{
			"same name different case is still duplicate",
			daily,
			Medication{Name: "METFORMIN", NormalizedName: "metformin", Frequency: FrequencyDaily, Times: []string{"08:00", "20:00"}},
			true,
		},
		{
			"extra dose time allows both",
			daily,
			Medication{Name: "Metformin", NormalizedName: "metformin", Frequency: FrequencyDaily, Times: []string{"08:00", "20:00", "23:00"}},
			false,
		},
		{
			"different frequency allows both",
			daily,
			Medication{Name: "Metformin", NormalizedName: "metformin", Frequency: FrequencyWeekly, Times: []string{"08:00", "20:00"}, Day: "Monday"},
			false,
		},
		{"identical weekly", weekly, weekly, true},
		{
			"different day allows both",
			weekly,
			Medication{Name: "Alendronate", NormalizedName: "alendronate", Frequency: FrequencyWeekly, Times: []string{"09:00"}, Day: "Tuesday"},
			false,
		},
		{"identical once", once, once, true},
		{
			"different datetime allows both",
			once,
			Medication{Name: "Paracetamol", NormalizedName: "paracetamol", Frequency: FrequencyOnce, DateTime: "2025-06-02 09:00"},
			false,
		},
		{
			"different medicine never duplicate",
			daily,
			Medication{Name: "Aspirin", NormalizedName: "aspirin", Frequency: FrequencyDaily, Times: []string{"08:00", "20:00"}},
			false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.a.SameSchedule(c.b); got != c.want {
				t.Fatalf("SameSchedule = %v, want %v", got, c.want)
			}
			// simétrico
			if got := c.b.SameSchedule(c.a); got != c.want {
				t.Fatalf("SameSchedule (reversed) = %v, want %v", got, c.want)
			}
		})
	}
}

func TestPruneEmptyPatients(t *testing.T) {
	doc := NewSchedule()
	doc.Patients["asha"] = Patient{DisplayName: "Asha", Phone: "+911234567890"}
	doc.Patients["ravi"] = Patient{
		DisplayName: "Ravi",
		Phone:       "+919999999999",
		Medications: []Medication{{Name: "Paracetamol", NormalizedName: "paracetamol", Frequency: FrequencyOnce, DateTime: "2025-06-01 09:00"}},
	}

	doc.PruneEmptyPatients()

	if _, ok := doc.Patients["asha"]; ok {
		t.Errorf("patient without medications survived pruning")
	}
	if _, ok := doc.Patients["ravi"]; !ok {
		t.Errorf("patient with medications was pruned")
	}
}

func TestValidPhone(t *testing.T) {
	valid := []string{"+911234567890", "911234567890", "+91 12345-67890", "12345678"}
	for _, p := range valid {
		if !ValidPhone(p) {
			t.Errorf("ValidPhone(%q) = false, want true", p)
		}
	}

	invalid := []string{"", "abc123", "+91abc1234567", "1234567", "+1234567890123456"}
	for _, p := range invalid {
		if ValidPhone(p) {
			t.Errorf("ValidPhone(%q) = true, want false", p)
		}
	}
}
