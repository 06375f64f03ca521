// Package errors provides standardized error handling patterns for StreamKit components.
//
// # Overview
//
// The errors package implements a three-class error classification system for
// buffered stream tooling: Transient (temporary, retryable), Invalid (bad
// input, non-retryable), and Fatal (unrecoverable, stop processing).
//
// This classification enables intelligent error handling strategies throughout
// StreamKit, allowing components to make informed decisions about retries,
// graceful degradation, and failure recovery without hardcoded error string
// matching.
//
// # Error Classification
//
// Errors are automatically classified based on their type or content:
//
//   - Transient: full buffers, failed client writes, rate limits, timeouts (retry recommended)
//   - Invalid: duplicate registrations, unknown clients, bad arguments (do not retry)
//   - Fatal: invalid configuration, invalidated buffers, resource exhaustion (stop processing)
//
// The classification system integrates with Go's standard error handling
// patterns, supporting errors.Is(), errors.As(), and error wrapping chains.
//
// # Quick Start
//
// Use standard error variables for common conditions:
//
//	// Return standard error for known conditions
//	if buf.Free() == 0 {
//	    return errors.ErrBufferFull
//	}
//
// Wrap errors with context for debugging:
//
//	// Wrap third-party errors with component context
//	if err := sink.Flush(ctx); err != nil {
//	    return errors.Wrap(err, "LineSink", "Flush", "drain buffered lines")
//	}
//
// Check classification for retry logic:
//
//	// Make retry decisions based on error class
//	if err := operation(); err != nil {
//	    if errors.IsTransient(err) {
//	        // Retry with exponential backoff
//	        config := errors.DefaultRetryConfig()
//	        if config.ShouldRetry(err, attempt) {
//	            time.Sleep(config.BackoffDelay(attempt))
//	            // retry operation
//	        }
//	    } else if errors.IsFatal(err) {
//	        // Stop processing, escalate to operator
//	        log.Fatalf("Unrecoverable error: %v", err)
//	    }
//	}
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// This format enables consistent log parsing, debugging, and operational
// monitoring across the kit. The Wrap family of functions automatically
// applies this pattern while preserving error classification through the
// chain.
//
// Three wrapper functions provide classification-aware wrapping:
//
//	errors.WrapTransient(err, "Component", "Method", "action")  // For retryable errors
//	errors.WrapInvalid(err, "Component", "Method", "action")    // For validation errors
//	errors.WrapFatal(err, "Component", "Method", "action")      // For unrecoverable errors
//
// The generic Wrap() function preserves the original error's classification:
//
//	errors.Wrap(err, "Component", "Method", "action")  // Preserves original class
//
// # Standard Error Variables
//
// The package provides pre-defined error variables for common conditions,
// organized by category:
//
//   - Component lifecycle: ErrAlreadyStarted, ErrNotStarted, ErrAlreadyStopped, ErrShuttingDown
//   - Buffer state: ErrBufferInvalid, ErrBufferFull, ErrBufferEmpty
//   - Sink delivery: ErrWriteFailed, ErrClientNotFound
//   - Configuration: ErrInvalidConfig, ErrMissingConfig, ErrConfigNotFound
//   - Metrics: ErrDuplicateMetric
//   - Resources: ErrResourceExhausted, ErrRateLimited
//   - Retry: ErrMaxRetriesExceeded, ErrRetryTimeout
//
// Use these variables instead of creating custom error messages for
// consistency:
//
//	// Good - uses standard variable
//	if _, ok := s.clients[id]; !ok {
//	    return errors.ErrClientNotFound
//	}
//
//	// Avoid - custom error message
//	if _, ok := s.clients[id]; !ok {
//	    return errors.New("client not found")
//	}
//
// # Retry Configuration
//
// The package includes built-in retry support with exponential backoff:
//
//	config := errors.DefaultRetryConfig()
//
//	for attempt := 0; attempt < config.MaxRetries; attempt++ {
//	    if err := operation(); err != nil {
//	        if !config.ShouldRetry(err, attempt) {
//	            return err  // Non-retryable or max attempts reached
//	        }
//	        time.Sleep(config.BackoffDelay(attempt))
//	        continue
//	    }
//	    return nil  // Success
//	}
//
// The retry configuration converts to the retry framework's Config for
// context-aware retry loops:
//
//	retryConfig := errorConfig.ToRetryConfig()
//	err := retry.Do(ctx, retryConfig, operation)
//
// # Integration with errors.As/Is
//
// All error types support standard library error inspection:
//
//	// Check error classification
//	var ce *errors.ClassifiedError
//	if errors.As(err, &ce) {
//	    log.Printf("Component: %s, Class: %s", ce.Component, ce.Class)
//	}
//
//	// Check for specific standard errors
//	if errors.Is(err, errors.ErrBufferFull) {
//	    // Handle full buffer specifically
//	}
//
//	// Classification is preserved through error chains
//	wrapped := errors.Wrap(errors.ErrBufferFull, "Sink", "Write", "push line")
//	if errors.IsTransient(wrapped) {  // true - classification preserved
//	    // Retry logic
//	}
//
// # Context Cancellation
//
// Context errors (context.DeadlineExceeded, context.Canceled) are
// automatically classified as Transient, enabling consistent handling of
// context-based timeouts:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
//	defer cancel()
//
//	if err := operation(ctx); err != nil {
//	    if errors.IsTransient(err) {
//	        // Handles both delivery timeouts AND context timeouts
//	        log.Printf("Transient error (retry recommended): %v", err)
//	    }
//	}
//
// # Thread Safety
//
// All classification and wrapping operations are thread-safe. Error variables
// are immutable values safe for concurrent access. The ClassifiedError type
// is safe to share across goroutines after creation.
//
// # Architecture Integration
//
// The errors package integrates with other StreamKit packages:
//
//   - ring: buffers wrap metric registration failures as transient
//   - sink: write failures are classified per attempt, skipping the
//     backoff via retry.NonRetryable when non-transient
//   - retry: RetryConfig.ToRetryConfig bridges into context-aware retry loops
//   - metric: duplicate registrations surface as invalid-class errors
//
// # Design Philosophy
//
// The errors package follows these design principles:
//
//   - Classification over string matching: Errors are classified by type, not content
//   - Wrapping over replacement: Preserve original errors, add context via wrapping
//   - Standards over invention: Use Go's error handling idioms (Is/As/Unwrap)
//   - Simplicity over completeness: Three classes cover the kit's needs
package errors
