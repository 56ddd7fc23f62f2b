package catalog

// defaultCategories is the production taxonomy.
var defaultCategories = []Category{
	{
		ID:   "clothing",
		Name: "Одежда",
		Subcategories: []Subcategory{
			{ID: "sneakers", Name: "Кроссовки"},
			{ID: "pants", Name: "Штаны"},
			{ID: "hoodies", Name: "Худи"},
			{ID: "sweatshirts", Name: "Свитшоты"},
			{ID: "t-shirts", Name: "Футболки"},
			{ID: "jackets", Name: "Куртки"},
			{ID: "dresses", Name: "Платья"},
			{ID: "accessories", Name: "Аксессуары"},
		},
	},
	{
		ID:   "digital-goods",
		Name: "Цифровые товары",
		Subcategories: []Subcategory{
			{ID: "game-accounts", Name: "Аккаунты в играх"},
			{ID: "telegram-accounts", Name: "Telegram аккаунты"},
			{ID: "telegram-stars", Name: "Telegram звёзды"},
			{ID: "subscriptions", Name: "Подписки"},
			{ID: "in-game-currency", Name: "Игровая валюта"},
			{ID: "software-licenses", Name: "Лицензии ПО"},
			{ID: "ebooks", Name: "Электронные книги"},
		},
	},
	{
		ID:   "vapes",
		Name: "Поды/Вейпы",
		Subcategories: []Subcategory{
			{ID: "vape-liquids", Name: "Жидкости для вейпов"},
			{ID: "cartridges", Name: "Картриджи"},
			{ID: "vape-devices", Name: "Вейпы"},
			{ID: "pod-systems", Name: "POD-системы"},
			{ID: "disposable-vapes", Name: "Одноразовые вейпы"},
		},
	},
	{
		ID:   "electronics",
		Name: "Техника",
		Subcategories: []Subcategory{
			{ID: "phones", Name: "Телефоны"},
			{ID: "headphones", Name: "Наушники"},
			{ID: "tablets", Name: "Планшеты"},
			{ID: "laptops", Name: "Ноутбуки"},
			{ID: "tvs", Name: "Телевизоры"},
			{ID: "cameras", Name: "Фотоаппараты"},
			{ID: "smartwatches", Name: "Смарт-часы"},
		},
	},
	{
		ID:   "services",
		Name: "Услуги",
		Subcategories: []Subcategory{
			{ID: "tutoring", Name: "Репетиторство"},
			{ID: "design", Name: "Дизайн"},
			{ID: "programming", Name: "Программирование"},
			{ID: "repairs", Name: "Ремонтные услуги"},
		},
	},
	{
		ID:   "other",
		Name: "Другое",
		Subcategories: []Subcategory{
			{ID: "various", Name: "Разное"},
		},
	},
}
