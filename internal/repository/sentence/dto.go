package sentence

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tsalagi-lab/sequoyah/internal/domain"
)

// Hash field names for sentence records. These double as index column
// aliases, so filter conditions reference them directly.
const (
	FieldRefID          = "ref_id"
	FieldEnglish        = "english"
	FieldSyllabary      = "syllabary"
	FieldPhonetic       = "phonetic"
	FieldAudio          = "audio"
	FieldLemmaText      = "lemma_text"
	FieldIsCommand      = "is_command"
	FieldIsHypothetical = "is_hypothetical"
	FieldIsInability    = "is_inability"
	FieldSubclauseTypes = "subclause_types"
	FieldHasSubclause   = "has_subclause"
	FieldSyllabaryLen   = "syllabary_len"
	FieldTagLabels      = "tag_labels"
	FieldTagCount       = "tag_count"
)

// toFields maps a record onto hash fields. An empty subclause set is
// stored as field absence, not empty string; has_subclause is always
// written so the any/none filters stay cheap TAG probes. The tag
// summary columns start at zero because the untagged_only filter is a
// numeric range and only matches hashes where tag_count exists;
// SetTagSummary overwrites them once tags arrive.
func toFields(rec *domain.SentenceRecord) map[string]string {
	fields := map[string]string{
		FieldRefID:          rec.RefID,
		FieldEnglish:        rec.English,
		FieldSyllabary:      rec.Syllabary,
		FieldPhonetic:       rec.Phonetic,
		FieldLemmaText:      rec.LemmaText,
		FieldIsCommand:      boolField(rec.IsCommand),
		FieldIsHypothetical: boolField(rec.IsHypothetical),
		FieldIsInability:    boolField(rec.IsInability),
		FieldSyllabaryLen:   strconv.Itoa(utf8.RuneCountInString(rec.Syllabary)),
		FieldTagLabels:      "",
		FieldTagCount:       "0",
	}

	if rec.Audio != "" {
		fields[FieldAudio] = rec.Audio
	}

	if len(rec.SubclauseTypes) > 0 {
		fields[FieldSubclauseTypes] = strings.Join(rec.SubclauseTypes, ",")
		fields[FieldHasSubclause] = "1"
	} else {
		fields[FieldHasSubclause] = "0"
	}

	return fields
}

// fromFields reconstructs a record from hash fields.
func fromFields(fields map[string]string) domain.SentenceRecord {
	rec := domain.SentenceRecord{
		RefID:          fields[FieldRefID],
		English:        fields[FieldEnglish],
		Syllabary:      fields[FieldSyllabary],
		Phonetic:       fields[FieldPhonetic],
		Audio:          fields[FieldAudio],
		LemmaText:      fields[FieldLemmaText],
		IsCommand:      fields[FieldIsCommand] == "1",
		IsHypothetical: fields[FieldIsHypothetical] == "1",
		IsInability:    fields[FieldIsInability] == "1",
	}

	if raw, ok := fields[FieldSubclauseTypes]; ok && raw != "" {
		rec.SubclauseTypes = strings.Split(raw, ",")
	}

	return rec
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
