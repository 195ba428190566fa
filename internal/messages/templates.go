package messages

import (
	"math/rand/v2"
	"strings"
)

// Template variants per message kind. Placeholders: {nome}, {servico},
// {profissional}, {hora}, {data}.
var templates = map[string][]string{
	"confirm": {
		"Perfeito, {nome}! ✔ Sua {servico} está marcada para {data} às {hora} com {profissional}.",
		"Tudo certo, {nome}! Consulta confirmada 👍 {servico} com {profissional} em {data} às {hora}.",
		"{nome}, confirmamos seu horário para {servico} com {profissional}. Te esperamos!",
		"Agendamento confirmado! ✅ {servico} dia {data} às {hora} com {profissional}. Nos vemos lá, {nome}!",
	},
	"reminderD1": {
		"Lembrete: sua consulta é amanhã às {hora}. Responda SIM para confirmar presença.",
		"Oi {nome}! Só lembrando: amanhã às {hora} é sua {servico} com {profissional}.",
		"Olá {nome}, amanhã te esperamos para {servico}! Horário: {hora}. Tudo certo?",
		"{nome}, amanhã você tem {servico} às {hora}. Confirma presença? 📅",
	},
	"reminderH3": {
		"Oi {nome}! Faltam 3h para sua {servico}. Pode vir tranquilo 😄",
		"Lembrete rápido: sua consulta hoje às {hora} com {profissional}.",
		"Te esperamos daqui a pouco! ⏰ {servico} às {hora}.",
		"{nome}, só um lembrete: daqui 3 horas é sua {servico}! Até logo 👋",
	},
	"noshow": {
		"Sentimos sua falta hoje, {nome} 😢 Quer reagendar? Temos horários ainda esta semana.",
		"Oi {nome}, não conseguimos te atender hoje. Posso remarcar {servico} com {profissional}?",
		"{nome}, vimos que você não compareceu. Quer reagendar? 😊",
	},
	"csat": {
		"Como foi seu atendimento com {profissional}? Avalie de 0 a 5 ⭐",
		"Oi {nome}! Ficamos felizes em te atender. Que nota de 0 a 5 você daria à consulta?",
		"{nome}, como foi sua experiência hoje? De 0 a 5, como você avalia? 🌟",
	},
	"cancel": {
		"Cancelamento confirmado, {nome}. Quando quiser remarcar, estamos à disposição!",
		"Tudo certo, {nome}. Sua {servico} foi cancelada. 😊 Pode agendar novamente quando preferir.",
		"{nome}, cancelamento registrado. Esperamos te ver em breve!",
	},
	"reschedule": {
		"Pronto! Sua consulta foi reagendada para {data} às {hora}. Até lá!",
		"Fechou! Remarcamos para {data} às {hora}. Até mais, {nome}!",
	},
}

// Render substitutes {placeholder} tokens from ctx into template.
func Render(template string, ctx map[string]string) string {
	out := template
	for key, value := range ctx {
		out = strings.ReplaceAll(out, "{"+key+"}", value)
	}
	return out
}

// RandomMessage renders a pseudo-randomly picked variant for kind.
// Unknown kinds return the empty string.
func RandomMessage(kind string, ctx map[string]string) string {
	variants := templates[kind]
	if len(variants) == 0 {
		return ""
	}
	return Render(variants[rand.IntN(len(variants))], ctx)
}
