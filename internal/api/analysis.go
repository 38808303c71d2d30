package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lexhound/statute-analyzer/internal/classify"
	"github.com/lexhound/statute-analyzer/internal/crossref"
	"github.com/lexhound/statute-analyzer/internal/export"
	"github.com/lexhound/statute-analyzer/internal/patterns"
	"github.com/lexhound/statute-analyzer/internal/presets"
	"github.com/lexhound/statute-analyzer/internal/rules"
	"github.com/lexhound/statute-analyzer/internal/storage"
	"github.com/lexhound/statute-analyzer/pkg/models"
)

// ComplianceRequest selects the provision to check.
type ComplianceRequest struct {
	ActKey    string `json:"act_key"`
	SectionID string `json:"section_id"`
}

// PresetsRequest selects which presets to run; empty means all.
type PresetsRequest struct {
	Presets []string `json:"presets"`
}

// ClassifyRequest carries raw findings to classify.
type ClassifyRequest struct {
	Findings []models.Finding `json:"findings"`
}

// FullAnalysis is the aggregate report of one end-to-end run.
type FullAnalysis struct {
	DocumentID        string                 `json:"document_id"`
	References        []string               `json:"references"`
	GoverningActs     []rules.ActSummary     `json:"governing_acts"`
	Compliance        []rules.SectionResult  `json:"compliance"`
	Presets           []models.PresetResult  `json:"presets"`
	CrossReference    crossref.Report        `json:"cross_reference"`
	Classification    classify.Result        `json:"classification"`
	PatternCandidates []patterns.Candidate   `json:"pattern_candidates"`
	LearnedPatterns   []models.Pattern       `json:"learned_patterns"`
	Timeline          []models.TimelineEntry `json:"timeline"`
}

// fetchDocument resolves a document by its storage ID.
func (s *Server) fetchDocument(ctx context.Context, w http.ResponseWriter, r *http.Request) *storage.Document {
	id, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid document id")
		return nil
	}
	document, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch document")
		return nil
	}
	if document == nil {
		respondError(w, http.StatusNotFound, "document not found")
		return nil
	}
	return document
}

// otherDocumentTexts returns the arena texts excluding one position.
func (s *Server) otherDocumentTexts(excludeIndex int) []string {
	var texts []string
	for i, doc := range s.checker.Documents() {
		if i == excludeIndex {
			continue
		}
		texts = append(texts, doc.Text)
	}
	return texts
}

// handleCompliance runs the statute rule engine for one provision.
// An unknown act or section comes back as a not-found result carrying
// the available keys, with HTTP 200: the condition is reportable, not
// exceptional.
func (s *Server) handleCompliance(w http.ResponseWriter, r *http.Request) {
	document := s.fetchDocument(r.Context(), w, r)
	if document == nil {
		return
	}

	var req ComplianceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ActKey == "" || req.SectionID == "" {
		respondError(w, http.StatusBadRequest, "act_key and section_id are required")
		return
	}

	respondJSON(w, http.StatusOK, s.rules.CheckCompliance(document.Content, req.ActKey, req.SectionID))
}

// handlePresets runs the selected presets over one document.
func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	document := s.fetchDocument(r.Context(), w, r)
	if document == nil {
		return
	}

	var req PresetsRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	selected := req.Presets
	if len(selected) == 0 {
		selected = presets.Names()
	}

	otherDocs := s.otherDocumentTexts(document.ArenaIndex)

	var results []models.PresetResult
	for _, name := range selected {
		result, err := presets.Analyze(name, document.Content, otherDocs)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		results = append(results, result)
	}

	respondJSON(w, http.StatusOK, results)
}

// handleCrossReference analyzes the whole document set. Fewer than two
// documents is a status-flagged result, not an error.
func (s *Server) handleCrossReference(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.checker.Analyze())
}

// handleClassify classifies caller-supplied findings.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	respondJSON(w, http.StatusOK, classify.ClassifyAll(req.Findings))
}

// handleLearn merges caller-supplied findings into the pattern store.
func (s *Server) handleLearn(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.analysisMu.Lock()
	result := classify.ClassifyAll(req.Findings)
	s.learner.Learn(result.Classified)
	learned := s.learner.LearnedPatterns()
	s.analysisMu.Unlock()

	respondJSON(w, http.StatusOK, learned)
}

// handlePatterns returns the learned-pattern snapshot.
func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.learner.LearnedPatterns())
}

// handleTimeline builds the chronological event view of one document.
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	document := s.fetchDocument(r.Context(), w, r)
	if document == nil {
		return
	}
	respondJSON(w, http.StatusOK, crossref.BuildTimeline(document.Content))
}

// handleFullAnalysis runs the whole pipeline for one document and
// persists the outcome.
func (s *Server) handleFullAnalysis(w http.ResponseWriter, r *http.Request) {
	document := s.fetchDocument(r.Context(), w, r)
	if document == nil {
		return
	}

	s.analysisMu.Lock()
	analysis := s.runFullAnalysis(document)
	s.analysisMu.Unlock()

	report, err := json.Marshal(analysis)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to serialize analysis")
		return
	}
	record := &storage.Analysis{
		DocumentID:    document.ID,
		Kind:          "full",
		OverallStatus: analysis.Classification.Summary.OverallStatus,
		Report:        report,
	}
	if err := s.analysisRepo.Create(r.Context(), record); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save analysis")
		return
	}

	respondJSON(w, http.StatusOK, analysis)
}

// runFullAnalysis composes the core: references, governing acts,
// compliance per matched section, all presets, cross-reference,
// classification, pattern learning, timeline. Strictly sequential.
func (s *Server) runFullAnalysis(document *storage.Document) FullAnalysis {
	text := document.Content

	analysis := FullAnalysis{DocumentID: document.ID.String()}
	analysis.References = rules.ExtractReferences(text)
	analysis.GoverningActs = s.rules.IdentifyGoverningActs(analysis.References)

	var findings []models.Finding

	for _, act := range analysis.GoverningActs {
		for _, sectionID := range act.MatchingSections {
			result := s.rules.CheckCompliance(text, act.Key, sectionID)
			analysis.Compliance = append(analysis.Compliance, result)
			findings = append(findings, complianceFindings(result)...)
		}
	}

	otherDocs := s.otherDocumentTexts(document.ArenaIndex)
	for _, name := range presets.Names() {
		result, err := presets.Analyze(name, text, otherDocs)
		if err != nil {
			continue
		}
		analysis.Presets = append(analysis.Presets, result)
		findings = append(findings, result.Findings...)
	}

	analysis.CrossReference = s.checker.Analyze()
	findings = append(findings, crossReferenceFindings(analysis.CrossReference)...)

	analysis.Classification = classify.ClassifyAll(findings)
	analysis.PatternCandidates = patterns.DetectPatterns(analysis.Classification.Classified)
	s.learner.Learn(analysis.Classification.Classified)
	analysis.LearnedPatterns = s.learner.LearnedPatterns()

	analysis.Timeline = crossref.BuildTimeline(text)

	return analysis
}

// complianceFindings turns missing required elements into findings.
// The authored consequence text passes through untouched.
func complianceFindings(result rules.SectionResult) []models.Finding {
	if !result.Found {
		return []models.Finding{{
			Type:        "unknown_provision",
			Severity:    models.SeverityLow,
			Description: result.Problem,
		}}
	}

	var findings []models.Finding
	for _, m := range result.Missing {
		description := fmt.Sprintf("required element %q of %s is not made out", m.Element, m.Reference)
		if m.Consequence != "" {
			description += ": " + m.Consequence
		}
		findings = append(findings, models.Finding{
			Type:        "statutory_element_missing",
			Severity:    models.SeverityHigh,
			Description: description,
			Location:    m.Reference,
		})
	}
	return findings
}

// crossReferenceFindings turns discrepancies into findings.
func crossReferenceFindings(report crossref.Report) []models.Finding {
	if report.Status != crossref.StatusOK {
		return nil
	}

	var findings []models.Finding
	for _, d := range report.DateDiscrepancies {
		findings = append(findings, models.Finding{
			Type:        "date_discrepancy",
			Severity:    models.SeverityHigh,
			Description: fmt.Sprintf("documents disagree on a %s: %d distinct versions", d.Kind, len(d.Groups)),
		})
	}
	for _, d := range report.LocationDiscrepancies {
		findings = append(findings, models.Finding{
			Type:        "location_discrepancy",
			Severity:    models.SeverityMedium,
			Description: fmt.Sprintf("documents disagree on a %s: %d distinct versions", d.Kind, len(d.Groups)),
		})
	}
	for _, d := range report.TimeDiscrepancies {
		findings = append(findings, models.Finding{
			Type:        "time_discrepancy",
			Severity:    models.SeverityHigh,
			Description: fmt.Sprintf("reported times %s and %s differ by %d minutes", d.Time1, d.Time2, d.DiffMinutes),
		})
	}
	for _, d := range report.EventDiscrepancies {
		findings = append(findings, models.Finding{
			Type:        "event_discrepancy",
			Severity:    models.SeverityMedium,
			Description: fmt.Sprintf("event recorded in one document is absent from another: %q", d.Event),
		})
	}
	return findings
}

// handleListAnalyses lists persisted analysis runs.
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	analyses, err := s.analysisRepo.GetAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list analyses")
		return
	}
	respondJSON(w, http.StatusOK, analyses)
}

// handleExport renders one persisted analysis as json or csv.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "analysisID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid analysis id")
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatJSON
	}

	analyses, err := s.analysisRepo.GetAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch analyses")
		return
	}
	for _, a := range analyses {
		if a.ID != id {
			continue
		}
		var full FullAnalysis
		if err := json.Unmarshal(a.Report, &full); err != nil {
			respondError(w, http.StatusInternalServerError, "stored report is unreadable")
			return
		}
		data, contentType, err := export.Export(full.Classification, format)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}
	respondError(w, http.StatusNotFound, "analysis not found")
}

// handleReset is the explicit data wipe: storage, arena, patterns.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.analysisMu.Lock()
	defer s.analysisMu.Unlock()

	if err := s.analysisRepo.ClearAll(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to clear analyses")
		return
	}
	if err := s.documentRepo.ClearAll(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to clear documents")
		return
	}
	s.checker.Reset()
	s.learner.Reset()

	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// handleListActs exposes the rule database catalogue.
func (s *Server) handleListActs(w http.ResponseWriter, r *http.Request) {
	type actInfo struct {
		Key      string   `json:"key"`
		FullName string   `json:"full_name"`
		Sections []string `json:"sections"`
	}
	var out []actInfo
	for _, key := range s.rules.ActKeys() {
		out = append(out, actInfo{
			Key:      key,
			FullName: s.rules.Acts[key].FullName,
			Sections: s.rules.SectionIDs(key),
		})
	}
	respondJSON(w, http.StatusOK, out)
}
