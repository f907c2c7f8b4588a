package application

import (
	"fmt"
	"html"
	"strings"
)

const (
	ShareLink = "https://t.me/KoreanMaks"

	ProcessingCaption = "🎄 Наряжаем елочку... Подожди немного!"
	ReminderText      = "Эй! Ты ещё тут? Осталось выбрать совсем немного!"
	HintText          = "Чтобы украсить Ёлку нажми /start \n\n Или напиши 'привет'"
	RenderFailedText  = "Ой! Не получилось нарядить ёлочку 😔 Попробуй ещё раз: /start"

	captionQuestion = "Кто из корейских красавчиков станет идеальным украшением для твоей новогодней елочки?"
)

// Captions use Telegram HTML parse mode; candidate names are escaped.

func StartCaption(catalogSize, picks int) string {
	return fmt.Sprintf(
		"%s\n\nЭто будет трудный выбор. Всего в списке <b>%d красавчиков</b>, а выбрать нужно только %d.\n\n"+
			"👇 <i>Используй кнопки внизу (⬅️ ➡️), чтобы листать страницы и посмотреть всех!</i>",
		captionQuestion, catalogSize, picks,
	)
}

func ProgressCaption(names []string, remaining int) string {
	return fmt.Sprintf(
		"%s\n\nВыбрано: <b>%s</b>\nОсталось выбрать: <b>%d</b>\n\n"+
			"👇 <i>Листай страницы (⬅️ ➡️), чтобы найти всех кандидатов!</i>",
		captionQuestion, strings.Join(escapeAll(names), ", "), remaining,
	)
}

func FinalCaption(names []string) string {
	var list strings.Builder
	for i, name := range escapeAll(names) {
		if i > 0 {
			list.WriteByte('\n')
		}
		fmt.Fprintf(&list, "%d. %s", i+1, name)
	}

	return fmt.Sprintf(
		"<b>Твоя елочка украшена! 🎄🎅🏻</b>\n\nВ этом году тебя будут радовать:\n\n%s\n\nПоделись Ёлочкой у меня в группе: %s",
		list.String(), ShareLink,
	)
}

func escapeAll(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = html.EscapeString(name)
	}
	return out
}
