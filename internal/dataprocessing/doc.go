// Package dataprocessing turns raw country extracts into panel rows and
// panel rows into cohort summaries.
//
// Ingestion runs ParseFile, then Normalizer.Normalize (validity mask,
// region re-filter, label mapping), then Reshaper.Reshape. Aggregation
// reads the combined artifact with LoadPanel and hands the rows to a
// Summarizer, which derives birth year, decade cohort and generation for
// each row before grouping.
package dataprocessing
