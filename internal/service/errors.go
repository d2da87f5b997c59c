package service

import (
	"errors"
	"fmt"
)

// Validation failures are caller-local: the service never mutates state
// before all checks pass. Handlers match these with errors.Is and translate
// them to HTTP status codes.
var (
	ErrCaixaJaAberto             = errors.New("já existe um caixa aberto")
	ErrSemCaixaAberto            = errors.New("não há caixa aberto")
	ErrValorInvalido             = errors.New("valor inválido")
	ErrFormaPagamentoInvalida    = errors.New("forma de pagamento não aceita")
	ErrDescricaoObrigatoria      = errors.New("descrição obrigatória para a categoria outros")
	ErrValorRecebidoInsuficiente = errors.New("valor recebido menor que o valor da venda")
	ErrVendaNaoEncontrada        = errors.New("venda não encontrada")
	ErrVendaJaEstornada          = errors.New("venda já estornada")
	ErrCaixaNaoEncontrado        = errors.New("caixa não encontrado")
)

// ErrColaborador wraps persistence/clock failures. The operation is treated
// as not having happened; retrying is the caller's policy, never the core's.
var ErrColaborador = errors.New("falha de colaborador externo")

func colaborador(err error) error {
	return fmt.Errorf("%w: %v", ErrColaborador, err)
}
