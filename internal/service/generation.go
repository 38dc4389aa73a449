package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// GenOptions parametriza el wrapper de reintentos de la llamada de
// generación. El presupuesto es fijo: sin backoff, sin distinguir errores
// retryables de los que no lo son.
type GenOptions struct {
	Retries    int
	RetryDelay time.Duration
	Timeout    time.Duration // por intento
}

func (o GenOptions) withDefaults() GenOptions {
	if o.Retries <= 0 {
		o.Retries = 5
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 2 * time.Second
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return o
}

// generateWithRetry llama al generador hasta agotar el presupuesto. Una
// respuesta vale solo si trae al menos un choice no vacío; error del
// proveedor o forma inválida consumen un intento igual. El deadline
// global (presupuesto × timeout por intento + esperas) acota el total
// para que un proveedor colgado no bloquee el request indefinidamente.
func generateWithRetry(parent context.Context, gen Generator, system, prompt string, maxTokens int, temperature float64, opt GenOptions) ([]string, error) {
	opt = opt.withDefaults()

	overall := time.Duration(opt.Retries)*(opt.Timeout+opt.RetryDelay) + time.Second
	ctx, cancel := context.WithTimeout(parent, overall)
	defer cancel()

	for attempt := 1; attempt <= opt.Retries; attempt++ {
		attemptCtx, attemptCancel := context.WithTimeout(ctx, opt.Timeout)
		choices, err := gen.Generate(attemptCtx, system, prompt, maxTokens, temperature)
		attemptCancel()

		if err == nil && validChoices(choices) {
			return choices, nil
		}
		if err != nil {
			slog.Warn("generación falló", "attempt", attempt, "error", err)
		} else {
			slog.Warn("respuesta de generación con forma inválida", "attempt", attempt)
		}

		if attempt == opt.Retries {
			break
		}
		select {
		case <-ctx.Done():
			if err := parent.Err(); err != nil {
				return nil, fmt.Errorf("generation canceled: %w", err)
			}
			return nil, ErrGenerationUnavailable
		case <-time.After(opt.RetryDelay):
		}
	}
	// Cancelación del caller (cliente que cortó) ≠ proveedor caído.
	if err := parent.Err(); err != nil {
		return nil, fmt.Errorf("generation canceled: %w", err)
	}
	return nil, ErrGenerationUnavailable
}

func validChoices(choices []string) bool {
	return firstChoice(choices) != ""
}

// firstChoice devuelve el primer choice con contenido.
func firstChoice(choices []string) string {
	for _, c := range choices {
		if c != "" {
			return c
		}
	}
	return ""
}
