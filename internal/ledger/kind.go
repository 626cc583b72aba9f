package ledger

import "github.com/valeriaulyamaeva/finance-ledger/models"

// InferKind детерминированно восстанавливает вид транзакции по классам
// счетов ее проводок той же таблицей, что и ValidatePostingClasses.
// Вид хранится в самой транзакции; восстановление нужно только как
// сверка для старых выгрузок, где колонка могла отсутствовать.
func InferKind(sourceClass, destClass string) string {
	switch {
	case destClass == models.AccountExpense:
		return models.KindWithdrawal
	case sourceClass == models.AccountRevenue:
		return models.KindDeposit
	default:
		return models.KindTransfer
	}
}
